package llm

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/akontos/hackmate/internal/util"
)

// Fallback produces deterministic offline responses when the model API is
// unavailable or not configured. Responses are routed by the same keyword
// heuristics the hosted assistant uses, and embeddings are seeded from a
// hash of the input so repeated queries rank identically.
type Fallback struct {
	EmbeddingDimensions int
}

func hashSeed(text string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return int64(h.Sum64() % 10000)
}

// Embed returns a pseudo-random unit-range vector derived from text.
func (f Fallback) Embed(text string) []float32 {
	util.Assert(f.EmbeddingDimensions > 0, "Fallback non-positive EmbeddingDimensions")

	rng := rand.New(rand.NewSource(hashSeed(text)))
	vector := make([]float32, f.EmbeddingDimensions)
	for i := range vector {
		vector[i] = float32(rng.Float64()*2 - 1)
	}
	return vector
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Respond picks a canned answer for the prompt. Total: never fails.
func (f Fallback) Respond(prompt, context string) string {
	lower := strings.ToLower(prompt)

	switch {
	case containsAnyWord(lower, []string{"idea", "validate", "project", "build", "original"}):
		return f.ideaValidation(prompt, context)
	case containsAnyWord(lower, []string{"how", "what", "elastic", "search", "implement", "vertex"}):
		return f.documentation(prompt)
	case containsAnyWord(lower, []string{"progress", "commit", "github", "repository"}):
		return f.progress()
	case containsAnyWord(lower, []string{"pitch", "presentation", "demo", "slide"}):
		return f.presentation()
	default:
		return f.general(prompt)
	}
}

// originalityScore is stable for a given prompt, in [65, 90].
func originalityScore(prompt string) int {
	return 65 + int(hashSeed(prompt)%26)
}

func (f Fallback) ideaValidation(prompt, context string) string {
	snippet := util.Truncate(prompt, 100)

	var similarNote string
	if context != "" && strings.Contains(strings.ToLower(context), "similar") {
		similarNote = "\n- Similar projects were found, which validates market demand."
	}

	return fmt.Sprintf(`**Idea Validation Analysis**

Originality Score: %d/100

Your Concept: %s

Market Analysis:
- The problem space is validated; related solutions show real demand.
- Your approach has room for unique differentiators.%s

Recommendations:
- Emphasize what makes your solution different.
- Demonstrate clear use cases and benefits.
- Showcase implementation quality in the demo.

Overall Assessment: strong hackathon potential. Focus on execution and presentation.

*This is an offline heuristic analysis. Configure a model API token for full AI capabilities.*`,
		originalityScore(prompt), snippet, similarNote)
}

func (f Fallback) documentation(prompt string) string {
	return fmt.Sprintf(`**Technical Documentation Response**

Based on your question: %q

Recommended approach:
1. Start with fundamentals and official documentation.
2. Configure necessary APIs and credentials.
3. Implement core functionality first, then iterate.
4. Test each component before moving on.

Common patterns: explicit error handling, structured logging, and tests on
critical paths.

*For context-aware technical answers, configure a model API token.*`,
		util.Truncate(prompt, 100))
}

func (f Fallback) progress() string {
	return `**Development Progress Analysis**

Current Status: active development phase.

Key milestones:
- Project structure established
- Core functionality implemented
- Testing and refinement in progress

Recommendations:
1. Prioritize testing to keep the demo stable.
2. Polish the user experience; first impressions matter to judges.
3. Prepare the README and documentation.
4. Rehearse the presentation.

*For real-time analysis, connect your repository and configure a model API token.*`
}

func (f Fallback) presentation() string {
	return `**Pitch Deck Structure**

1. Title and hook: project name, tagline, one-sentence value proposition.
2. The problem: what pain point, why it matters, who is affected.
3. Your solution: key innovation and how it works.
4. Technology stack: core technologies and why they matter.
5. Key features: three or four capabilities, framed as user benefits.
6. Live demo: real use cases, highlight the experience.
7. Market and impact: target users and competitive advantages.
8. What's next: roadmap and vision.
9. Team: backgrounds and relevant skills.

Demo script: problem statement (20s), live demo (100s), technology
highlights (30s), impact and next steps (30s).

*For pitch content generated from your repository, configure a model API token.*`
}

func (f Fallback) general(prompt string) string {
	return fmt.Sprintf(`**Hackathon Assistant**

I can help with idea validation, technical questions, progress tracking, and
presentation prep.

Your question: %q

Try one of:
- "Validate my idea: ..." to compare against past projects
- "How do I implement ..." for technical guidance
- "Check my project progress" for a GitHub activity summary
- "Help me create a pitch deck" for presentation structure

*Offline mode is active. Configure a model API token for full answers.*`,
		util.Truncate(prompt, 150))
}
