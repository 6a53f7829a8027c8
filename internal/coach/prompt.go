package coach

import (
	"fmt"
	"strings"

	"github.com/2beens/fitassist/internal/profile"
)

const systemPreamble = `You are an expert fitness coach. You provide:
- Personalized fitness advice
- Workout tips and form corrections
- Nutrition guidance (especially Indian cuisine)
- Motivation and support
- Evidence-based fitness information

Be friendly, encouraging, and professional. Keep responses concise but helpful.`

// BuildPrompt assembles the full prompt: the fixed system preamble, the
// user profile context when known, and the free-form question.
func BuildPrompt(userProfile *profile.UserProfile, question string) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)

	if userProfile != nil {
		sb.WriteString("\n\nUser Profile:\n")
		sb.WriteString(fmt.Sprintf("- Age: %d\n", userProfile.Age))
		sb.WriteString(fmt.Sprintf("- Sex: %s\n", userProfile.Sex))
		sb.WriteString(fmt.Sprintf("- Goal: %s\n", userProfile.Goal))
		sb.WriteString(fmt.Sprintf("- Experience: %s\n", userProfile.Experience))
		sb.WriteString(fmt.Sprintf("- Diet preference: %s\n", userProfile.DietPreference))
	}

	sb.WriteString(fmt.Sprintf("\nUser: %s\n\nCoach:", question))
	return sb.String()
}
