package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/analysis_system.txt
var analysisSystemPrompt string

// PromptOptions carries the session-level knobs that shape every analysis
// prompt. The zero value means default mode, Thai output, no curriculum.
type PromptOptions struct {
	// CustomInstruction, when non-empty, replaces the default system
	// instruction verbatim (custom mode).
	CustomInstruction string

	// Language is "th" or "en" and controls the output-language directive
	// and the value domains quoted in the user message.
	Language string

	// CurriculumContext is an optional retrieved passage from a reference
	// curriculum, injected so the model can cite a standard code.
	CurriculumContext string
}

const jsonReminder = "\n\n(IMPORTANT: Please return response in raw JSON format to ensure compatibility)"

// BuildAnalysisPrompt constructs the (system instruction, user message) pair
// for one question. questionID is the 1-based position within the exam.
func BuildAnalysisPrompt(questionText string, questionID int, opts PromptOptions) (string, string) {
	lang := "th"
	if strings.EqualFold(opts.Language, "en") {
		lang = "en"
	}

	ragBlock := ""
	if strings.TrimSpace(opts.CurriculumContext) != "" {
		ragBlock = fmt.Sprintf("\n\n**REFERENCE CURRICULUM:**\n%s\n(Use this reference to determine 'curriculum_standard')", opts.CurriculumContext)
	}

	if custom := strings.TrimSpace(opts.CustomInstruction); custom != "" {
		// Custom mode: the user owns the system prompt. Only append a JSON
		// reminder if they forgot to mention the format at all.
		system := custom
		if !strings.Contains(strings.ToLower(custom), "json") {
			system += jsonReminder
		}
		user := fmt.Sprintf("Question %d:\n%s%s", questionID, questionText, ragBlock)
		return system, user
	}

	langInstruction := "IMPORTANT: Please output your analysis reasoning inside the JSON in Thai language."
	if lang == "en" {
		langInstruction = "IMPORTANT: Please output your analysis reasoning inside the JSON in English language."
	}
	system := strings.TrimSpace(analysisSystemPrompt) + "\n\n" + langInstruction

	var user string
	if lang == "en" {
		user = fmt.Sprintf(`Question %d:
%s%s

Analyze and answer in JSON only (No Markdown text). Required keys:
- bloom_level (String: Remember, Understand, Apply, Analyze, Evaluate, Create)
- reasoning (String)
- difficulty (String: Easy, Medium, Hard)
- curriculum_standard (String: cite the code from Reference Curriculum if matched)
- correct_option (String: A, B, C, D)
- correct_option_analysis (String)
- distractor_analysis (String)
- why_good_distractor (String)
- is_good_question (Boolean)
- improvement_suggestion (String)`, questionID, questionText, ragBlock)
	} else {
		user = fmt.Sprintf(`คำถามข้อที่ %d:
%s%s

วิเคราะห์และตอบเป็น JSON เท่านั้น (ไม่ต้องมี Markdown text) โดยมี keys:
- bloom_level (String: Remember, Understand, Apply, Analyze, Evaluate, Create)
- reasoning (String)
- difficulty (String: ง่าย, ปานกลาง, ยาก)
- curriculum_standard (String: ระบุรหัสตัวชี้วัดจาก Reference Curriculum ถ้าตรง)
- correct_option (String: ก, ข, ค, ง)
- correct_option_analysis (String)
- distractor_analysis (String)
- why_good_distractor (String)
- is_good_question (Boolean)
- improvement_suggestion (String)`, questionID, questionText, ragBlock)
	}

	return system, user
}

// BuildGenerationPrompt asks for count new multiple-choice questions as a
// JSON array of {question, options, answer, explanation}.
func BuildGenerationPrompt(subject, bloomLevel, difficulty string, count int) string {
	return fmt.Sprintf(`สร้างข้อสอบปรนัย 4 ตัวเลือก จำนวน %d ข้อ
วิชา: %s
Level: %s
ระดับความยาก: %s

สำหรับแต่ละข้อ ให้มี:
1. คำถามที่ชัดเจน
2. ตัวเลือก ก. ข. ค. ง.
3. เฉลย
4. คำอธิบายคำตอบ

ตอบเป็น JSON array ที่มี keys: question, options (array), answer, explanation`, count, subject, bloomLevel, difficulty)
}

// BuildImprovementPrompt asks for a rewritten question that applies the
// given improvement suggestion while keeping the core content.
func BuildImprovementPrompt(questionText, suggestion string) string {
	return fmt.Sprintf(`ข้อสอบเดิม:
%s

ข้อเสนอแนะในการปรับปรุง:
%s

กรุณาเขียนข้อสอบใหม่ที่ปรับปรุงตามข้อเสนอแนะ โดยยังคงเนื้อหาหลักไว้ แต่แก้ไขจุดบกพร่อง
ตอบเฉพาะข้อสอบที่ปรับปรุงแล้วเท่านั้น ในรูปแบบ:
- คำถาม
- ตัวเลือก ก. ข. ค. ง.
- (เฉลย: ตัวเลือกที่ถูกต้อง)`, questionText, suggestion)
}
