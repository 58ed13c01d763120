package llm

import "fmt"

// CustomerReplyPrompt asks for a 2-3 sentence reply whose tone follows the
// rating band.
func CustomerReplyPrompt(rating int, review string) string {
	return fmt.Sprintf(`You are a friendly and empathetic customer service AI. A customer has submitted feedback with a %d-star rating.

Customer Review: "%s"

Based on the rating and review:
- If 4-5 stars: Thank them warmly, acknowledge specific positives they mentioned, and encourage continued engagement
- If 3 stars: Thank them, acknowledge their concerns, and express commitment to improvement
- If 1-2 stars: Apologize sincerely, acknowledge their frustration, assure them their feedback is valuable, and express commitment to resolve issues

Generate a personalized, empathetic response (2-3 sentences) that addresses their specific feedback.`, rating, review)
}

// AdminSummaryPrompt asks for a 1-2 sentence internal summary.
func AdminSummaryPrompt(rating int, review string) string {
	return fmt.Sprintf(`Analyze this customer feedback and provide a concise summary (1-2 sentences) highlighting the key points and sentiment.

Rating: %d/5 stars
Review: "%s"

Focus on: main issues/praises, sentiment tone, and urgency level.`, rating, review)
}

// RecommendedActionsPrompt asks for 2-3 bulleted business actions.
func RecommendedActionsPrompt(rating int, review string) string {
	return fmt.Sprintf(`Based on this customer feedback, suggest 2-3 specific, actionable recommendations for the business.

Rating: %d/5 stars
Review: "%s"

Provide concrete actions such as:
- If low rating (1-2): Immediate follow-up, issue investigation, compensation consideration
- If medium rating (3): Process improvement, training needs, service enhancement
- If high rating (4-5): Leverage positive feedback, request testimonial, maintain standards

Format as a bulleted list with specific, actionable items.`, rating, review)
}
