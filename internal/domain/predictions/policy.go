package predictions

// CanView: el dueño o cualquier admin.
func CanView(c Caller, r Record) bool {
	return (c.Username != "" && c.Username == r.Owner) || c.IsAdmin()
}

// CanSubmitFeedback usa la misma regla que CanView: quien puede ver puede opinar.
func CanSubmitFeedback(c Caller, r Record) bool {
	return CanView(c, r)
}
