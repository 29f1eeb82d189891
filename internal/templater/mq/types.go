package mq

type request struct {
	UUID           string `json:"uuid"`
	EventDate      string `json:"event_date"`
	BookingMessage string `json:"booking_message"`
}

type response struct {
	UUID     string `json:"uuid"`
	Filename string `json:"filename,omitempty"`
	Document []byte `json:"document,omitempty"`
}

type failure struct {
	UUID    string `json:"uuid"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
