package grading

// NearMissDistance is the largest edit distance from the canonical answer
// that is still graded as a near miss.
const NearMissDistance = 2

// Feedback strings shown to the learner, one per outcome.
const (
	FeedbackEmpty    = "Please enter an answer."
	FeedbackCorrect  = "Correct! That is exactly the expected sentence."
	FeedbackVariant  = "Correct! Yours is an accepted alternative phrasing."
	FeedbackNearMiss = "Almost there. Compare your sentence with the correct answer."
	FeedbackWrong    = "Not quite. Review the correct answer and try again."
)

// Result is the outcome of grading one answer.
type Result struct {
	Label    Label  `json:"label"`
	Feedback string `json:"feedback"`
	// MinimalRewrite is the canonical answer, surfaced for near misses
	// and wrong answers only.
	MinimalRewrite string `json:"minimal_rewrite,omitempty"`
	// Rule names the rule that decided the label.
	Rule string `json:"-"`
}

// Input holds one answer and its references, all normalized.
type Input struct {
	Answer     string
	Canonical  string
	Variants   map[string]struct{}
	NearMisses map[string]struct{}
}

// Rule decides a label for an answer, or reports that it does not apply.
type Rule interface {
	Name() string
	Match(in *Input) (Label, bool)
}

// DefaultRules returns the grading rules in precedence order. The first
// rule that matches decides the label.
func DefaultRules() []Rule {
	return []Rule{
		emptyRule{},
		exactRule{},
		variantRule{},
		nearMissRule{maxDistance: NearMissDistance},
	}
}

type emptyRule struct{}

func (emptyRule) Name() string { return "empty" }

func (emptyRule) Match(in *Input) (Label, bool) {
	return LabelWrong, in.Answer == ""
}

type exactRule struct{}

func (exactRule) Name() string { return "exact" }

func (exactRule) Match(in *Input) (Label, bool) {
	return LabelCorrect, in.Answer == in.Canonical
}

type variantRule struct{}

func (variantRule) Name() string { return "variant" }

func (variantRule) Match(in *Input) (Label, bool) {
	_, ok := in.Variants[in.Answer]
	return LabelVariant, ok
}

type nearMissRule struct {
	maxDistance int
}

func (nearMissRule) Name() string { return "near_miss" }

func (r nearMissRule) Match(in *Input) (Label, bool) {
	if _, ok := in.NearMisses[in.Answer]; ok {
		return LabelNearMiss, true
	}
	return LabelNearMiss, Distance(in.Answer, in.Canonical) <= r.maxDistance
}

// Grade classifies userAnswer against the canonical answer and the lists
// of accepted variants and known near misses. Every input is normalized
// before comparison.
func Grade(userAnswer, canonical string, variants, nearMisses []string) Result {
	return GradeWith(DefaultRules(), userAnswer, canonical, variants, nearMisses)
}

// GradeWith grades using an explicit rule chain. Answers that no rule
// matches are wrong.
func GradeWith(rules []Rule, userAnswer, canonical string, variants, nearMisses []string) Result {
	in := &Input{
		Answer:     Normalize(userAnswer),
		Canonical:  Normalize(canonical),
		Variants:   toSet(variants),
		NearMisses: toSet(nearMisses),
	}

	label, rule := LabelWrong, "fallback"
	for _, r := range rules {
		if l, ok := r.Match(in); ok {
			label, rule = l, r.Name()
			break
		}
	}

	res := Result{Label: label, Feedback: Feedback(label), Rule: rule}
	if rule == "empty" {
		res.Feedback = FeedbackEmpty
		return res
	}
	if !label.Accepted() {
		res.MinimalRewrite = canonical
	}
	return res
}

// Feedback returns the fixed learner feedback for a label.
func Feedback(l Label) string {
	switch l {
	case LabelCorrect:
		return FeedbackCorrect
	case LabelVariant:
		return FeedbackVariant
	case LabelNearMiss:
		return FeedbackNearMiss
	case LabelWrong:
		return FeedbackWrong
	default:
		panic("grading: unhandled label " + string(l))
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		if n := Normalize(s); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
