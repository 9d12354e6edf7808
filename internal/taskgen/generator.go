package taskgen

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/profile"
)

// IDOffset is the id of the first task in every result.
const IDOffset = 1000

// DefaultCount is the number of tasks requested when a caller leaves the
// count unset.
const DefaultCount = 3

// Config controls difficulty selection.
type Config struct {
	// Window is the number of recent attempts used to pick a tier.
	Window int

	// AdvancedRate and IntermediateRate are the recent correct-rate
	// thresholds for the upper tiers.
	AdvancedRate     float64
	IntermediateRate float64

	// CommonErrors is how many of the most frequent error tags are targeted.
	CommonErrors int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		Window:           10,
		AdvancedRate:     0.8,
		IntermediateRate: 0.6,
		CommonErrors:     3,
	}
}

var hints = map[profile.ErrorTag]string{
	profile.ErrorCarelessness:     "Be careful with the calculation. Check your answer.",
	profile.ErrorCalculation:      "Work through the calculation step by step.",
	profile.ErrorMissingFormula:   "Remember the order of operations: multiply and divide before you add and subtract.",
	profile.ErrorConceptConfusion: "Break the problem into parts and solve it step by step.",
	profile.ErrorLogicGap:         "Think about the logic of the problem. What must be found? How are the numbers related?",
}

// GenericHint is used when no targeted hint applies.
const GenericHint = "Solve the problem carefully and check your answer."

// HintFor returns the hint for the most frequent of commonErrors.
func HintFor(commonErrors []profile.ErrorTag) string {
	if len(commonErrors) > 0 {
		if h, ok := hints[commonErrors[0]]; ok {
			return h
		}
	}
	return GenericHint
}

// Generator samples tasks from a bank. It never modifies the profiles it
// reads. A Generator is not safe for concurrent use because it owns its
// random source.
type Generator struct {
	bank   Bank
	cfg    Config
	rng    *rand.Rand
	logger *zap.Logger
}

// New creates a generator. A nil rng uses a randomly seeded source.
func New(bank Bank, cfg Config, rng *rand.Rand, logger *zap.Logger) *Generator {
	if bank == nil {
		bank = DefaultBank()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{bank: bank, cfg: cfg, rng: rng, logger: logger.Named("taskgen")}
}

// Bank returns the task bank in use.
func (g *Generator) Bank() Bank { return g.bank }

// Generate picks up to count tasks for p on topic. A count of zero or less
// yields no tasks.
func (g *Generator) Generate(p *profile.Profile, topic string, count int) Result {
	if topic == "" {
		topic = DefaultTopic
	}
	count = max(count, 0)

	difficulty := g.Difficulty(p)
	common := g.CommonErrors(p)
	category := g.bank.category(topic)
	pool := g.bank.pool(category, difficulty)

	n := min(count, len(pool))
	hint := HintFor(common)
	tasks := make([]Task, 0, n)
	for i, idx := range g.rng.Perm(len(pool))[:n] {
		e := pool[idx]
		tasks = append(tasks, Task{
			ID:             IDOffset + i,
			Question:       e.Question,
			CorrectAnswer:  e.Answer,
			Category:       category,
			Difficulty:     difficulty,
			TargetedErrors: slices.Clone(common),
			Hint:           hint,
		})
	}

	g.logger.Debug("tasks generated",
		zap.String("user_id", p.UserID),
		zap.String("topic", topic),
		zap.String("category", category),
		zap.String("difficulty", string(difficulty)),
		zap.Int("count", len(tasks)),
	)

	return Result{
		Tasks:      tasks,
		Difficulty: difficulty,
		Reasoning:  fmt.Sprintf("Generated %d tasks at %s level targeting the learner's common errors", len(tasks), difficulty),
	}
}

// Difficulty picks a tier from the learner's recent correct rate.
func (g *Generator) Difficulty(p *profile.Profile) Difficulty {
	if len(p.TaskHistory) == 0 {
		return Beginner
	}
	rate := profile.CorrectRate(p.RecentAttempts(g.cfg.Window))
	switch {
	case rate >= g.cfg.AdvancedRate:
		return Advanced
	case rate >= g.cfg.IntermediateRate:
		return Intermediate
	default:
		return Beginner
	}
}

// CommonErrors returns the most frequent error tags, most frequent first.
func (g *Generator) CommonErrors(p *profile.Profile) []profile.ErrorTag {
	return p.ErrorFrequency.Top(g.cfg.CommonErrors).Tags()
}
