package questionbank

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	base := time.Now().UTC()
	questions := []Question{
		{ID: "q1", QuestionText: "1. เซลล์พืชมีอะไร", BloomLevel: "Remember", Subject: "ชีววิทยา", AddedAt: base},
		{ID: "q2", QuestionText: "2. เปรียบเทียบแรงสองชนิด", BloomLevel: "Analyze", Subject: "ฟิสิกส์", AddedAt: base.Add(time.Minute)},
		{ID: "q3", QuestionText: "3. ออกแบบการทดลอง", BloomLevel: "Create", Subject: "ฟิสิกส์", AddedAt: base.Add(2 * time.Minute)},
	}
	for _, q := range questions {
		if err := repo.Add(context.Background(), q); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	return repo
}

func TestListNewestFirstWithFilters(t *testing.T) {
	repo := seedRepo(t)

	all, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "q3" {
		t.Errorf("expected newest first, got %#v", all)
	}

	physics, err := repo.List(context.Background(), Filter{Subject: "ฟิสิกส์"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(physics) != 2 {
		t.Errorf("subject filter returned %d, want 2", len(physics))
	}

	create, err := repo.List(context.Background(), Filter{BloomLevel: "Create", Subject: "ฟิสิกส์"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(create) != 1 || create[0].ID != "q3" {
		t.Errorf("combined filter returned %#v", create)
	}

	paged, err := repo.List(context.Background(), Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != "q2" {
		t.Errorf("pagination returned %#v", paged)
	}
}

func TestStatsGrouping(t *testing.T) {
	repo := seedRepo(t)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.ByBloom["Create"] != 1 || stats.ByBloom["Analyze"] != 1 {
		t.Errorf("byBloom = %#v", stats.ByBloom)
	}
	if stats.BySubject["ฟิสิกส์"] != 2 {
		t.Errorf("bySubject = %#v", stats.BySubject)
	}
}

func TestDeleteLifecycle(t *testing.T) {
	repo := seedRepo(t)

	if err := repo.Delete(context.Background(), "q2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "q2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(context.Background(), "q2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should fail, got %v", err)
	}
}
