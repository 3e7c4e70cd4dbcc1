package message

// ID represents a Gmail message ID.
type ID string

// EmailMessage is a newsletter email reduced to what the pipeline needs,
// independent of any external SDK.
type EmailMessage struct {
	ID      ID
	Subject string
	Body    string // plain text body, extracted and aggregated
}
