package httpapi

type sessionRequest struct {
	session string
}

type fillRequest struct {
	EventDate      string `json:"event_date"`
	BookingMessage string `json:"booking_message"`

	session string
}

type unlockRequest struct {
	Password string `json:"password"`

	session string
}

type pdfResponse struct {
	Filename string
	Document []byte
	Inline   bool
}

type draftResponse struct {
	EventDate           string `json:"event_date"`
	BookingMessage      string `json:"booking_message"`
	OnboardingDismissed bool   `json:"onboarding_dismissed"`
}

type unlockResponse struct {
	Unlocked bool           `json:"unlocked"`
	Draft    *draftResponse `json:"draft,omitempty"`
}

type errorResponse struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}
