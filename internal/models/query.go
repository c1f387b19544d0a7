package models

import "encoding/json"

// Intent is the coarse topic of a query.
type Intent string

const (
	IntentCancellation Intent = "cancellation"
	IntentBooking      Intent = "booking"
	IntentStay         Intent = "stay"
	IntentAnalysis     Intent = "analysis"
	// IntentNone means no keyword rule matched. It serializes as JSON null.
	IntentNone Intent = ""
)

// MarshalJSON encodes IntentNone as null.
func (i Intent) MarshalJSON() ([]byte, error) {
	if i == IntentNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(i))
}

// UnmarshalJSON accepts a string or null.
func (i *Intent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = IntentNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*i = Intent(s)
	return nil
}

// String returns the intent label, "none" for IntentNone.
func (i Intent) String() string {
	if i == IntentNone {
		return "none"
	}
	return string(i)
}

// QueryInfo is the deterministic analysis of a raw query.
type QueryInfo struct {
	OriginalQuery           string `json:"original_query"`
	NormalizedQuery         string `json:"normalized_query"`
	DetectedIntent          Intent `json:"detected_intent"`
	IsQuestion              bool   `json:"is_question"`
	RequiresNumericalAnswer bool   `json:"requires_numerical_answer"`
}
