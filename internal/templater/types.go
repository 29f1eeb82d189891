package templater

// Required field names of the booking template.
const (
	EventDateField      = "EventDateField"
	SubmissionDateField = "SubmissionDateField"
	AnnexureField       = "AnnexureField"
)

// RequiredFields of the booking template, in fill order.
var RequiredFields = []string{
	EventDateField,
	SubmissionDateField,
	AnnexureField,
}

// Request for fill in template.
type Request struct {
	UUID           string
	EventDate      string
	BookingMessage string
}

// Response with the filled document.
type Response struct {
	UUID     string
	Filename string
	Document []byte
}
