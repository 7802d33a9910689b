package query

import "fmt"

// systemPrompt steers the model toward plain-language answers for citizens
// without a legal or administrative background.
const systemPrompt = `You are a helpful assistant that explains Kerala Panchayat rules and procedures in simple, easy-to-understand language.

Your guidelines:
- Use simple, clear language that anyone can understand
- Avoid legal jargon and complex terms
- Break down complex procedures into simple steps
- Give practical examples when helpful
- Use bullet points for lists and procedures
- Be encouraging and helpful in tone
- If something is technical, explain it in simple terms first

Remember: Your users may not have legal or administrative background, so make everything easy to understand.`

// userPromptTemplate embeds the retrieved context and the question. The
// model is instructed to answer from the reference information only.
const userPromptTemplate = `Based on this information from Kerala Panchayat documents, please answer the user's question in simple, clear language:

REFERENCE INFORMATION:
%s

USER'S QUESTION: %s

Please provide a helpful answer that:
1. Explains things in simple terms
2. Uses easy-to-understand language
3. Gives step-by-step guidance if needed
4. Is encouraging and supportive

ANSWER:`

// buildUserPrompt renders the user prompt for one question and its context.
func buildUserPrompt(context, question string) string {
	return fmt.Sprintf(userPromptTemplate, context, question)
}

// Canned answer texts. These are part of the response contract: front-ends
// display them verbatim.
const (
	answerInvalidQuestion = "Please provide a valid question."
	answerNoMatch         = "I couldn't find information about this topic in the Kerala Panchayat documents. Could you try asking in a different way?"
	answerInternalError   = "Sorry, I encountered an error while processing your question. Please try again."
)
