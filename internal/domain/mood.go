package domain

// Mood is the interviewer emoji shown next to the input prompt
type Mood string

const (
	// MoodIdle - waiting for the student
	MoodIdle Mood = "🤖"
	// MoodThinking - a request is in flight
	MoodThinking Mood = "🤔"
)

// MoodFor returns the mood shown right after an analysed answer
func MoodFor(classification string) Mood {
	return Mood(StyleFor(classification).Emoji)
}
