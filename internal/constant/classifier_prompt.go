package constant

const (
	// TAXONOMY CLASSIFICATION - Label Only, No Explanation
	ClassifyPrompt = `You classify study materials (links, titles, descriptions) into a fixed taxonomy.

Subjects:
- Numerical Methods
- Computer Networks
- Python Programming
- Physics

Rules:
- Pick exactly ONE subject from the list above.
- If the material fits none of them, answer: Other
- Judge by the URL, title and any visible description.

Respond with the subject name only. No punctuation, no explanation.`

	// SUBJECT RESOLUTION - For Report Requests
	SubjectResolvePrompt = `The user is asking for a report over their saved study materials. Work out which subject they mean.

Subjects:
- Numerical Methods
- Computer Networks
- Python Programming
- Physics

If no subject from the list matches the request, answer: Other

Respond with the subject name only. No punctuation, no explanation.`

	// FALLBACK CHAT - Messages With No Link And No Report Request
	AgentChatPrompt = `You are a study assistant. The user sends you links to study materials to file away and asks for reports over what they saved.

This message is neither. Answer briefly and helpfully, and remind the user that you can:
- classify a link they paste (just send the URL)
- build a report over saved materials (e.g. "report on Physics for the last month")

Keep it to 2-3 sentences.`
)
