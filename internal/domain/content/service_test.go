package content

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/pkg/pagination"
)

type mockRepo struct {
	items []Item
}

func (m *mockRepo) Create(_ context.Context, it *Item) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	m.items = append(m.items, *it)
	return nil
}

func (m *mockRepo) matching(category string) []Item {
	out := []Item{}
	for _, it := range m.items {
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (m *mockRepo) List(_ context.Context, category string, limit, offset int) ([]Item, error) {
	all := m.matching(category)
	if offset >= len(all) {
		return []Item{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockRepo) Count(_ context.Context, category string) (int, error) {
	return len(m.matching(category)), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(repo, zerolog.New(os.Stderr)), repo
}

func defaultPage() pagination.Params {
	return pagination.Params{Limit: pagination.DefaultLimit}
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newTestService()

	for _, in := range []CreateInput{
		{Category: CategoryYoga, Title: "Morning Yoga for Better Sleep", Duration: "15 min"},
		{Category: CategoryMeditation, Title: "Guided Sleep Meditation", Duration: "10 min"},
		{Category: CategorySleepHygiene, Title: "Winding Down Before Bed", Description: "Screens off an hour before sleep."},
	} {
		if _, err := svc.Create(nil, in); err != nil {
			t.Fatalf("Create(%s) error: %v", in.Title, err)
		}
	}

	all, err := svc.List(nil, "", defaultPage())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if all.Total != 3 {
		t.Errorf("expected total 3, got %d", all.Total)
	}
	if len(all.Data.([]Item)) != 3 {
		t.Errorf("expected 3 items, got %d", len(all.Data.([]Item)))
	}

	yoga, err := svc.List(nil, CategoryYoga, defaultPage())
	if err != nil {
		t.Fatalf("List(yoga) error: %v", err)
	}
	items := yoga.Data.([]Item)
	if yoga.Total != 1 || len(items) != 1 || items[0].Title != "Morning Yoga for Better Sleep" {
		t.Errorf("unexpected yoga feed: %+v", yoga)
	}
}

func TestList_Paginates(t *testing.T) {
	svc, _ := newTestService()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(nil, CreateInput{Category: CategoryMeditation, Title: "Session", Duration: "10 min"}); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	page, err := svc.List(nil, "", pagination.Params{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 5 || len(page.Data.([]Item)) != 2 {
		t.Errorf("unexpected page: total=%d len=%d", page.Total, len(page.Data.([]Item)))
	}
	if !page.HasMore {
		t.Error("expected more pages after offset 2 of 5")
	}

	last, err := svc.List(nil, "", pagination.Params{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if last.HasMore {
		t.Error("last page must not report more")
	}
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	svc, repo := newTestService()

	if _, err := svc.Create(nil, CreateInput{Category: "crossfit", Title: "x"}); err != ErrInvalidCategory {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.Create(nil, CreateInput{Category: CategoryYoga}); err == nil {
		t.Error("expected error for missing title")
	}
	if len(repo.items) != 0 {
		t.Error("invalid input must not persist")
	}
}

func TestList_RejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.List(nil, "tarot", defaultPage()); err != ErrInvalidCategory {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}
