//go:build !integration

package store_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// MockStorage records calls and can be forced to fail.
type MockStorage struct {
	saved     []*domain.Proposal
	saveCalls int
	clearCall int
	loadSet   []*domain.Proposal
	failAll   bool
}

func (m *MockStorage) Load(ctx context.Context) ([]*domain.Proposal, error) {
	if m.failAll {
		return nil, errors.New("storage unavailable")
	}
	return m.loadSet, nil
}

func (m *MockStorage) Save(ctx context.Context, proposals []*domain.Proposal) error {
	m.saveCalls++
	if m.failAll {
		return errors.New("storage unavailable")
	}
	m.saved = append([]*domain.Proposal(nil), proposals...)
	return nil
}

func (m *MockStorage) Clear(ctx context.Context) error {
	m.clearCall++
	if m.failAll {
		return errors.New("storage unavailable")
	}
	m.saved = nil
	return nil
}

func confirmProposal(id string) *domain.Proposal {
	return &domain.Proposal{
		Kind:          domain.KindServiceCreate,
		ProposalID:    id,
		ExecutionMode: domain.ModeConfirm,
		Payload:       map[string]any{"name": "Haircut", "price": 30, "durationMinutes": 30},
	}
}

var _ = Describe("Store", func() {
	var (
		s       *store.Store
		storage *MockStorage
		ctx     context.Context
	)

	BeforeEach(func() {
		storage = &MockStorage{}
		s = store.New(storage, createTestLogger())
		ctx = context.Background()
	})

	Describe("Append", func() {
		It("should enqueue proposals preserving insertion order", func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1"), confirmProposal("p2")})
			s.Append(ctx, []*domain.Proposal{confirmProposal("p3")})

			list := s.List()
			Expect(list).To(HaveLen(3))
			Expect(list[0].ProposalID).To(Equal("p1"))
			Expect(list[1].ProposalID).To(Equal("p2"))
			Expect(list[2].ProposalID).To(Equal("p3"))
		})

		It("should skip proposals whose id is already pending", func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			Expect(s.Len()).To(Equal(1))
		})

		It("should persist the full pending set on every mutation", func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			s.Append(ctx, []*domain.Proposal{confirmProposal("p2")})

			Expect(storage.saveCalls).To(Equal(2))
			Expect(storage.saved).To(HaveLen(2))
		})

		It("should keep the in-memory set authoritative when storage fails", func() {
			storage.failAll = true
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			Expect(s.Len()).To(Equal(1))
		})
	})

	Describe("RemoveByID", func() {
		BeforeEach(func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1"), confirmProposal("p2")})
		})

		It("should remove only the targeted proposal", func() {
			Expect(s.RemoveByID(ctx, "p1")).To(BeTrue())
			Expect(s.Len()).To(Equal(1))
			_, ok := s.Get("p2")
			Expect(ok).To(BeTrue())
		})

		It("should be idempotent", func() {
			Expect(s.RemoveByID(ctx, "p1")).To(BeTrue())
			before := s.List()
			Expect(s.RemoveByID(ctx, "p1")).To(BeFalse())
			Expect(s.List()).To(Equal(before))
		})

		It("should clear the durable blob when the pending set becomes empty", func() {
			s.RemoveByID(ctx, "p1")
			s.RemoveByID(ctx, "p2")
			Expect(storage.clearCall).To(Equal(1))
		})
	})

	Describe("ReplaceAll", func() {
		It("should swap the entire pending set", func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			s.ReplaceAll(ctx, []*domain.Proposal{confirmProposal("p2"), confirmProposal("p3")})

			list := s.List()
			Expect(list).To(HaveLen(2))
			Expect(list[0].ProposalID).To(Equal("p2"))
		})
	})

	Describe("Clear", func() {
		It("should drop everything and remove the blob", func() {
			s.Append(ctx, []*domain.Proposal{confirmProposal("p1")})
			s.Clear(ctx)
			Expect(s.Len()).To(Equal(0))
			Expect(storage.clearCall).To(Equal(1))
		})
	})

	Describe("Rehydrate", func() {
		It("should load the persisted set and report its size", func() {
			storage.loadSet = []*domain.Proposal{confirmProposal("p1"), confirmProposal("p2")}
			count := s.Rehydrate(ctx)
			Expect(count).To(Equal(2))
			Expect(s.List()[0].ProposalID).To(Equal("p1"))
		})

		It("should start empty when storage read fails", func() {
			storage.failAll = true
			Expect(s.Rehydrate(ctx)).To(Equal(0))
			Expect(s.Len()).To(Equal(0))
		})
	})
})

var _ = Describe("FileStorage", func() {
	It("should round-trip the pending set", func() {
		path := filepath.Join(GinkgoT().TempDir(), "pending.json")
		storage := store.NewFileStorage(path)
		ctx := context.Background()

		original := []*domain.Proposal{confirmProposal("p1"), confirmProposal("p2")}
		Expect(storage.Save(ctx, original)).To(Succeed())

		loaded, err := storage.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(HaveLen(2))
		Expect(loaded[0].ProposalID).To(Equal("p1"))
		Expect(loaded[0].Kind).To(Equal(domain.KindServiceCreate))
		Expect(loaded[1].ProposalID).To(Equal("p2"))
	})

	It("should report an empty set for a missing blob", func() {
		storage := store.NewFileStorage(filepath.Join(GinkgoT().TempDir(), "missing.json"))
		loaded, err := storage.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeEmpty())
	})

	It("should remove the blob on clear", func() {
		path := filepath.Join(GinkgoT().TempDir(), "pending.json")
		storage := store.NewFileStorage(path)
		ctx := context.Background()

		Expect(storage.Save(ctx, []*domain.Proposal{confirmProposal("p1")})).To(Succeed())
		Expect(storage.Clear(ctx)).To(Succeed())

		loaded, err := storage.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeEmpty())
	})

	It("should tolerate clearing a missing blob", func() {
		storage := store.NewFileStorage(filepath.Join(GinkgoT().TempDir(), "missing.json"))
		Expect(storage.Clear(context.Background())).To(Succeed())
	})
})

var _ = Describe("SQLiteStorage", func() {
	var (
		storage *store.SQLiteStorage
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		storage, err = store.OpenSQLiteStorage(ctx, filepath.Join(GinkgoT().TempDir(), "pending.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(storage.Close()).To(Succeed())
	})

	It("should round-trip the pending set", func() {
		original := []*domain.Proposal{confirmProposal("p1")}
		Expect(storage.Save(ctx, original)).To(Succeed())

		loaded, err := storage.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(HaveLen(1))
		Expect(loaded[0].ProposalID).To(Equal("p1"))
	})

	It("should overwrite the previous blob on save", func() {
		Expect(storage.Save(ctx, []*domain.Proposal{confirmProposal("p1")})).To(Succeed())
		Expect(storage.Save(ctx, []*domain.Proposal{confirmProposal("p2"), confirmProposal("p3")})).To(Succeed())

		loaded, err := storage.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(HaveLen(2))
	})

	It("should report an empty set after clear", func() {
		Expect(storage.Save(ctx, []*domain.Proposal{confirmProposal("p1")})).To(Succeed())
		Expect(storage.Clear(ctx)).To(Succeed())

		loaded, err := storage.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeEmpty())
	})
})
