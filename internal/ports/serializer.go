package ports

// Serializer converts a message body into bytes before it is framed.
// Failures must be reported as *domain.SerializationError; the frame is then
// never queued or sent.
type Serializer interface {
	Serialize(body any) ([]byte, error)
}
