package chatbot

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed explanations
var explanationFS embed.FS

var explanations = loadExplanations()

// loadExplanations reads explanations/<subject>/<concept>.md into a lookup table.
func loadExplanations() map[Subject]map[string]string {
	table := make(map[Subject]map[string]string)
	err := fs.WalkDir(explanationFS, "explanations", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".md" {
			return err
		}
		data, err := explanationFS.ReadFile(p)
		if err != nil {
			return err
		}
		subject := Subject(path.Base(path.Dir(p)))
		concept := strings.TrimSuffix(path.Base(p), ".md")
		if table[subject] == nil {
			table[subject] = make(map[string]string)
		}
		table[subject][concept] = strings.TrimSpace(string(data))
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("chatbot: load explanations: %v", err))
	}
	return table
}

// Explain returns the canned explanation for concept within subject, or a prompt
// asking the learner for more context when the dictionary has no entry.
func Explain(subject Subject, concept string) (string, bool) {
	if text, ok := explanations[subject][concept]; ok {
		return text, true
	}
	return fmt.Sprintf("%q is an important %s concept. To give you the most accurate explanation, "+
		"could you provide more context about what specific aspect you'd like to understand?", concept, subject), false
}

// LookupExplanation searches every subject for a canned explanation of concept.
func LookupExplanation(concept string) (string, bool) {
	concept = strings.ToLower(strings.TrimSpace(concept))
	if subject, ok := SubjectOf(concept); ok {
		if text, ok := explanations[subject][concept]; ok {
			return text, true
		}
	}
	for _, subject := range subjectOrder {
		if text, ok := explanations[subject][concept]; ok {
			return text, true
		}
	}
	return "", false
}
