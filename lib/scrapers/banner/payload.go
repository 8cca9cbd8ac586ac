package banner

import (
	"strconv"
	"strings"
)

// MaxCRNs is the number of add rows on the registration form.
const MaxCRNs = 10

// CRNSlots are the add rows of the registration form, blank slots are "".
type CRNSlots [MaxCRNs]string

// NewCRNSlots fills slots in order, anything after the 10th crn is dropped.
func NewCRNSlots(crns []string) CRNSlots {
	var slots CRNSlots
	copy(slots[:], crns)
	return slots
}

// Record is one already-registered course as it appears in the hidden
// inputs of the registration page, keyed by input name.
type Record map[string]string

// the static hidden inputs that precede the course rows on the live form,
// submitted as DUMMY placeholders
var preambleFields = []string{
	"RSTS_IN",
	"assoc_term_in",
	"CRN_IN",
	"start_date_in",
	"end_date_in",
	"SUBJ",
	"CRSE",
	"SEC",
	"LEVL",
	"CRED",
	"GMOD",
	"TITLE",
}

type formWriter struct {
	parts []string
}

// add appends key=value with value written as-is, callers do any escaping.
func (w *formWriter) add(key, value string) {
	w.parts = append(w.parts, key+"="+value)
}

func (w *formWriter) String() string {
	return strings.Join(w.parts, "&")
}

// BuildPayload serializes the registration form the way the portal's own
// page submits it. Repeated keys are parsed positionally by the portal,
// so field order is significant.
func BuildPayload(term string, records []Record, crns CRNSlots) string {
	w := &formWriter{}

	w.add("term_in", term)
	for _, name := range preambleFields {
		w.add(name, "DUMMY")
	}
	w.add("MESG", "DUMMY")
	w.add("REG_BTN", "DUMMY")
	w.add("MESG", "DUMMY")

	for i, r := range records {
		// empty status keeps the current registration unchanged
		w.add("RSTS_IN", "")
		w.add("assoc_term_in", r["assoc_term_in"])
		w.add("CRN_IN", r["CRN_IN"])
		w.add("start_date_in", strings.ReplaceAll(r["start_date_in"], "/", "%2F"))
		w.add("end_date_in", strings.ReplaceAll(r["end_date_in"], "/", "%2F"))
		w.add("SUBJ", r["SUBJ"])
		w.add("CRSE", r["CRSE"])
		w.add("SEC", r["SEC"])
		w.add("LEVL", r["LEVL"])
		w.add("CRED", "++++"+r["CRED"])
		w.add("GMOD", strings.ReplaceAll(r["GMOD"], " ", "+"))
		w.add("TITLE", strings.ReplaceAll(r["TITLE"], " ", "+"))
		if i < len(records)-1 {
			w.add("MESG", "DUMMY")
		}
	}

	for _, crn := range crns {
		w.add("RSTS_IN", "RW")
		w.add("CRN_IN", crn)
		w.add("assoc_term_in", "")
		w.add("start_date_in", "")
		w.add("end_date_in", "")
	}

	w.add("regs_row", strconv.Itoa(len(records)))
	w.add("wait_row", "0")
	w.add("add_row", strconv.Itoa(MaxCRNs))
	w.add("REG_BTN", "Submit+Changes")

	return w.String()
}
