//go:build !integration

package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

func int64Ptr(v int64) *int64 { return &v }

var _ = Describe("Proposal", func() {
	Describe("Validate", func() {
		Context("with a well-formed create proposal", func() {
			It("should accept it", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceCreate,
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
					Payload:       map[string]any{"name": "Haircut", "price": 30, "durationMinutes": 30},
				}
				Expect(p.Validate()).To(Succeed())
			})
		})

		Context("with missing common fields", func() {
			It("should reject an empty proposal id", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceCreate,
					ExecutionMode: domain.ModeConfirm,
					Payload:       map[string]any{"name": "Haircut"},
				}
				err := p.Validate()
				Expect(err).To(HaveOccurred())
				Expect(domain.IsValidationError(err)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("proposalId"))
			})

			It("should reject an empty kind", func() {
				p := &domain.Proposal{
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
				}
				Expect(domain.IsValidationError(p.Validate())).To(BeTrue())
			})

			It("should reject an invalid execution mode", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceCreate,
					ProposalID:    "p1",
					ExecutionMode: "maybe",
					Payload:       map[string]any{"name": "Haircut"},
				}
				err := p.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("executionMode"))
			})
		})

		Context("with kind-specific required fields missing", func() {
			It("should reject an update without a resolved id", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceUpdate,
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
					Label:         "Haircut",
					Payload:       map[string]any{"price": 40},
				}
				err := p.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("resolvedId"))
			})

			It("should reject a delete without a label", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceDelete,
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
					ResolvedID:    int64Ptr(7),
				}
				err := p.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("label"))
			})

			It("should reject a create without payload", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceCreate,
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
				}
				Expect(p.Validate()).To(HaveOccurred())
			})

			It("should reject a view that is not display-only", func() {
				p := &domain.Proposal{
					Kind:          domain.KindServiceView,
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
					ResolvedID:    int64Ptr(7),
				}
				err := p.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("display-only"))
			})
		})

		Context("with an unknown kind", func() {
			It("should accept a well-formed proposal for downstream registry handling", func() {
				p := &domain.Proposal{
					Kind:          "service:archive",
					ProposalID:    "p1",
					ExecutionMode: domain.ModeConfirm,
				}
				Expect(p.Validate()).To(Succeed())
			})
		})
	})

	Describe("ParseProposal", func() {
		It("should decode and validate a wire proposal", func() {
			raw := []byte(`{
				"kind": "service:update",
				"proposalId": "b3c7",
				"executionMode": "confirm",
				"resolvedId": 12,
				"label": "Beard Trim",
				"payload": {"price": 25}
			}`)
			p, err := domain.ParseProposal(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Kind).To(Equal(domain.KindServiceUpdate))
			Expect(*p.ResolvedID).To(Equal(int64(12)))
			Expect(p.Label).To(Equal("Beard Trim"))
		})

		It("should reject malformed JSON with a validation error", func() {
			_, err := domain.ParseProposal([]byte(`{nope`))
			Expect(domain.IsValidationError(err)).To(BeTrue())
		})

		It("should reject a structurally invalid proposal", func() {
			_, err := domain.ParseProposal([]byte(`{"kind":"service:create","executionMode":"confirm"}`))
			Expect(domain.IsValidationError(err)).To(BeTrue())
		})
	})

	Describe("MergedFields", func() {
		It("should let edited values win over proposed ones", func() {
			p := &domain.Proposal{
				Kind:          domain.KindServiceCreate,
				ProposalID:    "p1",
				ExecutionMode: domain.ModeConfirm,
				Payload:       map[string]any{"name": "Haircut", "price": 30, "durationMinutes": 30},
			}
			merged := p.MergedFields(domain.FormData{"price": 35})
			Expect(merged["price"]).To(Equal(35))
			Expect(merged["name"]).To(Equal("Haircut"))
			Expect(merged["durationMinutes"]).To(Equal(30))
		})

		It("should not mutate the proposal payload", func() {
			p := &domain.Proposal{
				Kind:          domain.KindServiceCreate,
				ProposalID:    "p1",
				ExecutionMode: domain.ModeConfirm,
				Payload:       map[string]any{"price": 30},
			}
			_ = p.MergedFields(domain.FormData{"price": 99})
			Expect(p.Payload["price"]).To(Equal(30))
		})
	})
})
