package domain

// QuestionType distinguishes forced-choice questions from 1..N scale
// questions.
type QuestionType string

const (
	QuestionChoice QuestionType = "choice"
	QuestionScale  QuestionType = "scale"
)

// QuestionOption is one selectable answer of a choice question. Value is the
// raw answer value recorded in the answer map (e.g. an MBTI pole letter).
type QuestionOption struct {
	Value string `json:"value" yaml:"value"`
	Text  string `json:"text" yaml:"text"`
}

// Question is a single question of a test definition.
type Question struct {
	ID      string           `json:"id" yaml:"id"`
	Type    QuestionType     `json:"type" yaml:"type"`
	Text    string           `json:"text" yaml:"text"`
	Options []QuestionOption `json:"options,omitempty" yaml:"options,omitempty"`
	// Scale bounds, used when Type is scale.
	Min int `json:"min,omitempty" yaml:"min,omitempty"`
	Max int `json:"max,omitempty" yaml:"max,omitempty"`
}

// TestDefinition is a static, immutable test loaded at startup. Questions
// are ordered; the scoring function for TestID lives in the scoring table.
// swagger:model TestDefinition
type TestDefinition struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// TestRegistry gives read-only access to the loaded test definitions.
type TestRegistry interface {
	Get(testID string) (*TestDefinition, bool)
	List() []*TestDefinition
}
