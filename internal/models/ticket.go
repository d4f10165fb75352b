package models

// TicketMessage is the support message composed by /createticket.
type TicketMessage struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
