package storygen

import (
	"fmt"
	"strings"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/story"
)

const systemPrompt = `You write short reading-comprehension exercises for children.

Rules:
- Write an original, kind, age-appropriate story about the requested topic.
- Use simple sentences and vocabulary that fit the requested grade level.
- Write exactly the requested number of paragraphs, each 2-4 sentences long.
- Write exactly the requested number of questions. Every question must be answerable from the story alone.
- Every question is multiple choice with 3 or 4 choices and exactly one correct answer.
- Wrong choices should be plausible but clearly wrong to a careful reader.
- Vary the position of the correct choice between questions.
- Set paragraph_index to the zero-based paragraph that contains the answer.
- Ask about a mix of details, sequence, vocabulary in context and the main idea.
- Do not include the answers in the question text.`

// buildUserMessage describes the requested story.
func buildUserMessage(req content.Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", story.TitleTopic(req.Topic))
	fmt.Fprintf(&b, "Grade level: %d\n", req.GradeLevel)
	fmt.Fprintf(&b, "Paragraphs: %d\n", req.ParagraphCount)
	fmt.Fprintf(&b, "Questions: %d", req.QuestionCount)

	return b.String()
}

// TopicOf extracts the story topic from a logged request body, or returns
// "" when the body was not written by this package.
func TopicOf(requestBody string) string {
	for line := range strings.Lines(requestBody) {
		if topic, ok := strings.CutPrefix(strings.TrimSpace(line), "Topic: "); ok {
			return topic
		}
	}
	return ""
}

// retryHint is appended to the prompt after a retryable validation failure.
func retryHint(verr *ValidationError) string {
	return fmt.Sprintf("\n\nYour previous story was rejected: %s. Fix this and try again.", verr.Message)
}
