package ai

import "fmt"

const classificationPromptTemplate = `Analyze this image carefully.

STEP 1: CLASSIFICATION
Is this strictly a "Student Event" (Hackathon, Workshop, Symposium, Fest, Competition)?
- If it is a Time Table, Exam Schedule, Arrear Exam, Course Registration, or Administrative Notice: RETURN JSON with "is_event": false.

STEP 2: EXTRACTION (Only if Step 1 is True)
- If "is_event": true, extract the details below.
- LINK LOGIC:
  1. Use the QR Link provided below if available.
  2. If NO QR Link, look for a written URL/Link text in the image (e.g. bit.ly/..., forms.gle/...) and use that.
  3. If neither, set "registration_link": "None".

CONTEXT: Scanned QR Code Link: "%s"

REQUIRED JSON FORMAT:
{
    "is_event": true/false,
    "event_title": "String",
    "venue": "String",
    "start_date": "String (YYYY-MM-DD HH:MM)",
    "end_date": "String",
    "registration_fee": "String",
    "team_size": "String",
    "category": "String",
    "registration_link": "String",
    "organizer": "String"
}`

// buildPrompt embeds the QR-derived link as disambiguating context, or
// "None" when no code decoded.
func buildPrompt(qrLink string) string {
	if qrLink == "" {
		qrLink = "None"
	}
	return fmt.Sprintf(classificationPromptTemplate, qrLink)
}
