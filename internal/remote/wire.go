package remote

// SetLessonFlagRequest is the body of POST /api/v1/progress/lessons.
//
// NumberLesson and StateLesson carry the legacy body shapes
// {"numberLesson": "..."} and {"stateLesson": "..."}; new clients send
// SlotKey only.
type SetLessonFlagRequest struct {
	SlotKey      string `json:"slotKey,omitempty"`
	NumberLesson string `json:"numberLesson,omitempty"`
	StateLesson  string `json:"stateLesson,omitempty"`
}

// Key returns the slot key named by the request, whichever field holds it.
func (r SetLessonFlagRequest) Key() string {
	switch {
	case r.SlotKey != "":
		return r.SlotKey
	case r.StateLesson != "":
		return r.StateLesson
	default:
		return r.NumberLesson
	}
}

// ProgressResponse is the body returned by the progress endpoints.
type ProgressResponse struct {
	UID     string          `json:"uid"`
	Lessons map[string]bool `json:"lessons"`
}

// ProfileRequest is the body of POST /api/v1/users.
type ProfileRequest struct {
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"displayName" binding:"omitempty,max=80"`
}

// ProfileResponse is the body returned by the user endpoints.
type ProfileResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// ErrorBody is the error envelope returned by the service.
type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FlagEvent is one entry of GET /api/v1/progress/events.
type FlagEvent struct {
	Sequence  int64  `json:"sequence"`
	SlotKey   string `json:"slotKey"`
	Timestamp int64  `json:"timestamp"`
}

// EventsResponse is the body returned by GET /api/v1/progress/events.
type EventsResponse struct {
	UID    string      `json:"uid"`
	Events []FlagEvent `json:"events"`
}
