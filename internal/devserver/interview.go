package devserver

import (
	"strconv"
	"strings"
	"sync"

	"alto-client/internal/domain"

	"github.com/google/uuid"
)

// questionBank is asked in order; the first entry is the opening question
var questionBank = []string{
	"Good morning. Why do you want to study in the United States?",
	"Why did you choose this university?",
	"What will you study, and how does it relate to your previous education?",
	"Who is sponsoring your education?",
	"What does your sponsor do for a living?",
	"What are your plans after graduation?",
	"Do you have relatives in the United States?",
	"Why not study this program in your home country?",
	"How will this degree help your career at home?",
	"Have you traveled abroad before?",
	"How did you find out about this program?",
	"What ties do you have to your home country?",
}

const closingMessage = "Thank you. That concludes your interview."

var (
	returnWords = []string{"return", "home", "back", "family", "come back", "my country", "job offer"}
	stayWords   = []string{"stay in the us", "immigrate", "green card", "settle", "live in america", "stay here"}
	goalWords   = []string{"study", "degree", "major", "career", "research", "university", "program", "course", "master", "engineer"}
	fundWords   = []string{"sponsor", "scholarship", "parents", "father", "mother", "fund", "savings", "salary", "loan"}
)

type interview struct {
	id       string
	owner    string
	level    domain.Level
	asked    int
	answered int
	scores   domain.RiskScores
	finished bool
}

// interviews struct - in-memory interview sessions keyed by id
type interviews struct {
	mu       sync.Mutex
	sessions map[string]*interview
}

func newInterviews() *interviews {
	return &interviews{sessions: make(map[string]*interview)}
}

// open starts a session and returns the opening question
func (i *interviews) open(owner string, level domain.Level) (*interview, string) {
	session := &interview{
		id:    uuid.NewString(),
		owner: owner,
		level: level,
		asked: 1,
	}
	i.mu.Lock()
	i.sessions[session.id] = session
	i.mu.Unlock()
	return session, questionBank[0]
}

func (i *interviews) get(id, owner string) (*interview, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	session, ok := i.sessions[id]
	if !ok || session.owner != owner {
		return nil, false
	}
	return session, true
}

// answer grades one answer and returns the next question, or the closing message
func (i *interviews) answer(session *interview, answer string) domain.ChatResponse {
	i.mu.Lock()
	defer i.mu.Unlock()

	if session.finished {
		return domain.ChatResponse{Content: closingMessage, SessionID: session.id, Finished: true}
	}

	analysis := analyze(answer)
	session.answered++
	session.scores = accumulate(session.scores, analysis.Scores, answer, session.answered)

	scores := session.scores
	resp := domain.ChatResponse{
		SessionID:   session.id,
		Analysis:    &analysis,
		Scores:      &scores,
		Grade:       domain.StyleFor(analysis.Classification).Grade,
		Suggestions: analysis.Feedback.Improvements,
	}

	if session.answered >= session.level.QuestionCount() {
		session.finished = true
		resp.Content = closingMessage
		resp.Finished = true
		return resp
	}

	next := questionBank[session.asked%len(questionBank)]
	session.asked++
	resp.Content = next
	resp.QuestionID = questionID(session.asked)
	return resp
}

func questionID(n int) string {
	return "q" + strconv.Itoa(n)
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func clampScore(v int) int {
	if v < domain.RawCriterionMin {
		return domain.RawCriterionMin
	}
	if v > domain.RawCriterionMax {
		return domain.RawCriterionMax
	}
	return v
}

// analyze scores an answer on the 1–5 criteria with keyword and length heuristics
func analyze(answer string) domain.Analysis {
	lower := strings.ToLower(answer)
	words := len(strings.Fields(answer))

	var length int
	switch {
	case words < 5:
		length = 1
	case words < 15:
		length = 2
	case words < 30:
		length = 3
	case words < 60:
		length = 4
	default:
		length = 5
	}

	intent := 3 + countMatches(lower, returnWords)
	if countMatches(lower, stayWords) > 0 {
		intent -= 2
	}
	intent = clampScore(intent)
	goal := clampScore(1 + countMatches(lower, goalWords))

	scores := domain.AnalysisScores{
		MigrationIntent:   intent,
		GoalUnderstanding: goal,
		AnswerLength:      length,
		TotalScore:        intent + goal + length,
	}

	return domain.Analysis{
		Scores:         scores,
		Classification: classify(scores.TotalScore),
		Feedback:       feedbackFor(scores),
	}
}

func classify(total int) string {
	switch {
	case total >= 13:
		return "Excellent"
	case total >= 10:
		return "Good"
	case total >= 7:
		return "Average"
	case total >= 5:
		return "Weak"
	default:
		return "Poor"
	}
}

func feedbackFor(scores domain.AnalysisScores) domain.Feedback {
	fb := domain.Feedback{
		ByCriterion: domain.CriterionFeedback{
			MigrationIntent:   criterionNote(scores.MigrationIntent, "Your ties to home are clear.", "Make your plan to return home explicit."),
			GoalUnderstanding: criterionNote(scores.GoalUnderstanding, "Your academic goals are specific.", "Connect the program to concrete goals."),
			AnswerLength:      criterionNote(scores.AnswerLength, "Good level of detail.", "Give a fuller answer."),
		},
	}

	if scores.MigrationIntent < 4 {
		fb.Improvements = append(fb.Improvements, "Mention the ties and plans that bring you back home.")
	}
	if scores.GoalUnderstanding < 4 {
		fb.Improvements = append(fb.Improvements, "Name your program and how it fits your career.")
	}
	if scores.AnswerLength < 3 {
		fb.Improvements = append(fb.Improvements, "Answer in two or three complete sentences.")
	}

	switch classify(scores.TotalScore) {
	case "Excellent":
		fb.Overall = "Confident, specific answer."
	case "Good":
		fb.Overall = "Solid answer with room for more detail."
	case "Average":
		fb.Overall = "Acceptable, but the officer may ask follow-up questions."
	default:
		fb.Overall = "This answer needs more substance."
	}
	return fb
}

func criterionNote(score int, good, weak string) string {
	if score >= 4 {
		return good
	}
	return weak
}

// accumulate folds one answer into the running 0–100 risk scores
func accumulate(prev domain.RiskScores, s domain.AnalysisScores, answer string, n int) domain.RiskScores {
	academic := int(domain.RescaleCriterion(float64(s.GoalUnderstanding)))
	intent := int(domain.RescaleCriterion(float64(s.MigrationIntent)))
	financial := 50
	if countMatches(strings.ToLower(answer), fundWords) > 0 {
		financial = 90
	}

	avg := func(old, v int) int { return (old*(n-1) + v) / n }
	next := domain.RiskScores{
		Academic:       avg(prev.Academic, academic),
		Financial:      avg(prev.Financial, financial),
		IntentToReturn: avg(prev.IntentToReturn, intent),
	}
	next.OverallRisk = 100 - (next.Academic+next.Financial+next.IntentToReturn)/3
	return next
}
