package generation

// Fixed replies for pipeline failure paths. The pipeline never surfaces raw
// provider errors to the user.
const (
	FallbackNoContext = "I couldn't find anything about that in our knowledge base. Could you rephrase the question, or ask about one of our services?"

	FallbackGenerationError = "Sorry, something went wrong while preparing your answer. Please try again in a moment."
)
