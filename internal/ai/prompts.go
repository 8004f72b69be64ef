package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	AnalyzeTactic   string
	EnhanceResponse string
	ExtractProfile  string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	AnalyzeTactic   string
	EnhanceResponse string
	ExtractProfile  string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	AnalyzeTactic: `You are an expert salary negotiation coach with deep knowledge of recruiter playbooks and compensation practices. Your role is to:

- Identify the negotiation tactic behind an employer's message
- Detect pressure techniques such as urgency, exploding offers, and budget framing
- Recognize what information the employer is trying to extract from the candidate
- Recommend a strategic response posture

You classify messages objectively and never invent details that are not present in the message or the provided context.`,

	EnhanceResponse: `You are an expert negotiation communication coach. Your role is to refine drafted negotiation responses so they are:

- Persuasive and confident without being aggressive
- Professional in tone and suitable for written communication with an employer
- Positioned to make the candidate appear valuable and in demand

You never fabricate credentials, offers, or numbers that are not in the draft or the provided context, and you preserve the strategic intent of the original draft.`,

	ExtractProfile: `You are an expert resume analyst. Your role is to extract structured candidate information from raw resume text with strict accuracy:

- Every extracted fact must be directly traceable to the resume text
- Never invent skills, employers, dates, or qualifications
- Leave fields empty when the resume does not provide the information
- Normalize obvious variations (e.g. date formats) without changing meaning`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	AnalyzeTactic: `Analyze this negotiation message from a company recruiter or hiring manager:

Message: "%s"

Context:
- Company: %s
- Position: %s
- Candidate's target salary: %s
- Candidate's leverage points: %s

Determine:
1. What negotiation tactic is the company using?
2. What pressure points are they applying?
3. What information are they seeking?
4. How should the candidate respond strategically?`,

	EnhanceResponse: `Enhance this professional negotiation response to be more persuasive and strategically effective:

Original Response:
%s

Context:
- Company: %s
- Position: %s
- Target salary: %s
- Leverage points: %s

Make the response more compelling while maintaining professionalism. Add subtle positioning that makes the candidate appear more valuable and desirable.

Keep the response concise but impactful. Return only the rewritten response text.`,

	ExtractProfile: `Extract a structured candidate profile from the following resume text.

Include contact details, total years of professional experience, highest education level, industry, skills, certifications, notable achievements, work history, education history, and languages. Leave out anything the resume does not state.

Resume text:
-----
%s
-----`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
