package chatbot

// Subject is a concept vocabulary the learning assistant recognizes.
type Subject string

const (
	SubjectProgramming Subject = "programming"
	SubjectMath        Subject = "mathematical"
	SubjectScience     Subject = "scientific"
)

// subjectOrder is the lookup order when a term belongs to more than one vocabulary
// ("function" resolves to programming).
var subjectOrder = []Subject{SubjectProgramming, SubjectMath, SubjectScience}

var vocabularies = map[Subject][]string{
	SubjectProgramming: {
		"variable", "function", "loop", "array", "object", "class", "method", "algorithm",
		"debug", "code", "programming", "javascript", "python", "java", "html", "css",
		"react", "node", "database", "api",
	},
	SubjectMath: {
		"equation", "algebra", "calculus", "geometry", "trigonometry", "statistics",
		"probability", "derivative", "integral", "function", "graph", "solve", "calculate",
	},
	SubjectScience: {
		"physics", "chemistry", "biology", "experiment", "hypothesis", "theory", "molecule",
		"atom", "cell", "organism", "energy", "force", "reaction",
	},
}

var termIndex = buildTermIndex()

func buildTermIndex() map[string]Subject {
	idx := make(map[string]Subject)
	for _, subject := range subjectOrder {
		for _, term := range vocabularies[subject] {
			if _, seen := idx[term]; !seen {
				idx[term] = subject
			}
		}
	}
	return idx
}

// SubjectOf returns the vocabulary a concept belongs to.
func SubjectOf(concept string) (Subject, bool) {
	s, ok := termIndex[concept]
	return s, ok
}
