package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"exam-backend/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	lastReq  llm.Request
}

func (c *fakeClient) Generate(ctx context.Context, req llm.Request) (string, error) {
	c.lastReq = req
	return c.response, c.err
}

func (c *fakeClient) Name() string { return "fake" }

func newService(client llm.Client) *Service {
	return &Service{
		Clients:         map[string]llm.Client{"gemini": client},
		DefaultProvider: "gemini",
	}
}

func TestGenerateParsesQuestionArray(t *testing.T) {
	client := &fakeClient{response: "```json\n[" +
		`{"question":"แรงโน้มถ่วงคืออะไร","options":["ก. แรงผลัก","ข. แรงดึงดูด","ค. แรงเสียดทาน","ง. แรงตึง"],"answer":"ข","explanation":"..."}` +
		"]\n```"}
	svc := newService(client)

	questions, err := svc.Generate(context.Background(), "", "ฟิสิกส์", "Understand", "", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions", len(questions))
	}
	if questions[0].Answer != "ข" || len(questions[0].Options) != 4 {
		t.Errorf("unexpected question %#v", questions[0])
	}
	if !strings.Contains(client.lastReq.User, "3 ข้อ") {
		t.Errorf("prompt should carry the requested count: %q", client.lastReq.User)
	}
	if !strings.Contains(client.lastReq.User, "ปานกลาง") {
		t.Errorf("blank difficulty should default to medium: %q", client.lastReq.User)
	}
}

func TestGenerateClampsCount(t *testing.T) {
	client := &fakeClient{response: `[]`}
	svc := newService(client)

	if _, err := svc.Generate(context.Background(), "", "คณิต", "Apply", "ยาก", 100); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(client.lastReq.User, "20 ข้อ") {
		t.Errorf("count should clamp to 20: %q", client.lastReq.User)
	}
}

func TestGenerateUnknownProvider(t *testing.T) {
	svc := newService(&fakeClient{})
	_, err := svc.Generate(context.Background(), "mystery", "คณิต", "Apply", "", 5)
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestGenerateNonJSONResponse(t *testing.T) {
	svc := newService(&fakeClient{response: "ขออภัย ไม่สามารถสร้างข้อสอบได้"})
	if _, err := svc.Generate(context.Background(), "", "คณิต", "Apply", "", 5); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestImprove(t *testing.T) {
	client := &fakeClient{response: "  ข้อสอบที่ปรับปรุงแล้ว\nก. หนึ่ง ข. สอง ค. สาม ง. สี่\n(เฉลย: ข)  "}
	svc := newService(client)

	improved, err := svc.Improve(context.Background(), "", "ข้อสอบเดิม", "เพิ่มความชัดเจนของตัวเลือก")
	if err != nil {
		t.Fatalf("Improve: %v", err)
	}
	if strings.HasPrefix(improved, " ") || strings.HasSuffix(improved, " ") {
		t.Errorf("response should be trimmed: %q", improved)
	}
	if !strings.Contains(client.lastReq.User, "เพิ่มความชัดเจนของตัวเลือก") {
		t.Errorf("prompt should carry the suggestion: %q", client.lastReq.User)
	}

	empty := newService(&fakeClient{response: "   "})
	if _, err := empty.Improve(context.Background(), "", "q", "s"); err == nil {
		t.Fatal("expected error for empty response")
	}
}
