//go:build !integration

package coordinator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	plugins "github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/application"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chatapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/coordinator"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared/audit"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// NullStorage keeps everything in memory only.
type NullStorage struct{}

func (NullStorage) Load(ctx context.Context) ([]*domain.Proposal, error) { return nil, nil }
func (NullStorage) Save(ctx context.Context, p []*domain.Proposal) error { return nil }
func (NullStorage) Clear(ctx context.Context) error                      { return nil }

// MockChatClient records action-result calls and returns a canned follow-up.
type MockChatClient struct {
	mu            sync.Mutex
	actionResults []domain.ActionResult
	reply         *chatapi.Message
	failResults   bool
}

func (m *MockChatClient) Open(ctx context.Context) (*chatapi.Message, error) {
	return &chatapi.Message{Role: "bot", Content: "Hello"}, nil
}

func (m *MockChatClient) SendMessage(ctx context.Context, content string) (*chatapi.Message, error) {
	return &chatapi.Message{Role: "bot", Content: "ok"}, nil
}

func (m *MockChatClient) SendActionResult(ctx context.Context, result domain.ActionResult) (*chatapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failResults {
		return nil, errors.New("backend unreachable")
	}
	m.actionResults = append(m.actionResults, result)
	if m.reply != nil {
		return m.reply, nil
	}
	return &chatapi.Message{Role: "bot", Content: "Done!"}, nil
}

func (m *MockChatClient) ActionResults() []domain.ActionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActionResult(nil), m.actionResults...)
}

// MockConversation records the follow-up messages applied to the transcript.
type MockConversation struct {
	mu       sync.Mutex
	messages []*chatapi.Message
}

func (m *MockConversation) ApplyMessage(ctx context.Context, msg *chatapi.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockConversation) Messages() []*chatapi.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*chatapi.Message(nil), m.messages...)
}

// MockNotifier records surfaced notifications.
type MockNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (m *MockNotifier) Success(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes = append(m.successes, message)
}

func (m *MockNotifier) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *MockNotifier) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}

// recordingPlugin registers a single executable kind whose executor is
// controlled by the test.
type recordingPlugin struct {
	kind    domain.ActionKind
	execute domain.ExecuteFunc
}

func (p *recordingPlugin) ID() string          { return "test-" + p.kind.Entity() }
func (p *recordingPlugin) Name() string        { return "Test plugin" }
func (p *recordingPlugin) Description() string { return "Test plugin" }
func (p *recordingPlugin) Version() string     { return "1.0.0" }

func (p *recordingPlugin) GetActions(ctx context.Context) ([]domain.Action, error) {
	return []domain.Action{{
		Kind:  p.kind,
		Title: "Create service",
		GetProps: func(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
			return map[string]any{}, nil
		},
		Execute: p.execute,
	}}, nil
}

func createProposal(id string) *domain.Proposal {
	return &domain.Proposal{
		Kind:          domain.KindServiceCreate,
		ProposalID:    id,
		ExecutionMode: domain.ModeConfirm,
		Payload:       map[string]any{"name": "Haircut", "price": 30, "durationMinutes": 30},
	}
}

var _ = Describe("Coordinator", func() {
	var (
		ctx          context.Context
		proposals    *store.Store
		registry     *plugins.ActionRegistry
		chatClient   *MockChatClient
		conversation *MockConversation
		notifier     *MockNotifier
		coord        *coordinator.Coordinator

		executedForms  []domain.FormData
		executeErr     error
		executeGate    chan struct{}
		executeStarted chan struct{}
		execMu         sync.Mutex
	)

	registerExecutor := func(kind domain.ActionKind) {
		plugin := &recordingPlugin{
			kind: kind,
			execute: func(ctx context.Context, p *domain.Proposal, form domain.FormData) error {
				if executeStarted != nil {
					close(executeStarted)
				}
				if executeGate != nil {
					<-executeGate
				}
				execMu.Lock()
				executedForms = append(executedForms, form)
				execMu.Unlock()
				return executeErr
			},
		}
		Expect(registry.Register(ctx, plugin)).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger := createTestLogger()
		proposals = store.New(NullStorage{}, logger)
		registry = plugins.NewEmptyActionRegistry(logger)
		chatClient = &MockChatClient{}
		conversation = &MockConversation{}
		notifier = &MockNotifier{}
		coord = coordinator.New(proposals, registry, chatClient, conversation, notifier, audit.NewNoOpSink(), logger)

		executedForms = nil
		executeErr = nil
		executeGate = nil
		executeStarted = nil
	})

	Describe("Confirm", func() {
		BeforeEach(func() {
			registerExecutor(domain.KindServiceCreate)
			proposals.Append(ctx, []*domain.Proposal{createProposal("p1")})
		})

		It("should run the executor with the user-edited form data", func() {
			err := coord.Confirm(ctx, "p1", domain.FormData{"price": 35})
			Expect(err).NotTo(HaveOccurred())

			Expect(executedForms).To(HaveLen(1))
			Expect(executedForms[0]["price"]).To(Equal(35))
		})

		It("should report confirmed to the backend and remove the proposal", func() {
			Expect(coord.Confirm(ctx, "p1", nil)).To(Succeed())

			results := chatClient.ActionResults()
			Expect(results).To(HaveLen(1))
			Expect(results[0].ProposalID).To(Equal("p1"))
			Expect(results[0].Status).To(Equal(domain.StatusConfirmed))
			Expect(proposals.Len()).To(Equal(0))
		})

		It("should append exactly one follow-up message to the conversation", func() {
			Expect(coord.Confirm(ctx, "p1", nil)).To(Succeed())
			Expect(conversation.Messages()).To(HaveLen(1))
		})

		Context("when the executor fails", func() {
			BeforeEach(func() {
				executeErr = errors.New("network error")
			})

			It("should keep the proposal pending and not contact the backend", func() {
				err := coord.Confirm(ctx, "p1", nil)
				Expect(err).To(HaveOccurred())

				Expect(proposals.Len()).To(Equal(1))
				Expect(chatClient.ActionResults()).To(BeEmpty())
				Expect(notifier.Errors()).To(HaveLen(1))
			})

			It("should allow a retry with corrected data to succeed", func() {
				Expect(coord.Confirm(ctx, "p1", nil)).To(HaveOccurred())

				executeErr = nil
				Expect(coord.Confirm(ctx, "p1", domain.FormData{"price": 35})).To(Succeed())
				Expect(proposals.Len()).To(Equal(0))
			})
		})

		Context("when the confirmation round trip fails after a successful executor", func() {
			BeforeEach(func() {
				chatClient.failResults = true
			})

			It("should remove the proposal anyway", func() {
				Expect(coord.Confirm(ctx, "p1", nil)).To(Succeed())
				Expect(proposals.Len()).To(Equal(0))
				Expect(notifier.Errors()).To(HaveLen(1))
			})
		})

		Context("when the follow-up message carries new proposals", func() {
			BeforeEach(func() {
				chatClient.reply = &chatapi.Message{
					Role:    "bot",
					Content: "Created. Anything else?",
				}
			})

			It("should route the follow-up through the conversation", func() {
				Expect(coord.Confirm(ctx, "p1", nil)).To(Succeed())
				msgs := conversation.Messages()
				Expect(msgs).To(HaveLen(1))
				Expect(msgs[0].Content).To(Equal("Created. Anything else?"))
			})
		})

		It("should be a no-op for an id that is not pending", func() {
			err := coord.Confirm(ctx, "ghost", nil)
			Expect(errors.Is(err, domain.ErrProposalNotFound)).To(BeTrue())
			Expect(chatClient.ActionResults()).To(BeEmpty())
			Expect(executedForms).To(BeEmpty())
		})

		It("should refuse kinds missing from the registry", func() {
			proposals.Append(ctx, []*domain.Proposal{{
				Kind:          "service:archive",
				ProposalID:    "p9",
				ExecutionMode: domain.ModeConfirm,
			}})

			err := coord.Confirm(ctx, "p9", nil)
			Expect(errors.Is(err, domain.ErrUnknownAction)).To(BeTrue())
			Expect(proposals.Len()).To(Equal(2))
		})

		It("should refuse display-only proposals", func() {
			Expect(registry.Register(ctx, &displayOnlyPlugin{})).To(Succeed())

			id := int64(4)
			proposals.Append(ctx, []*domain.Proposal{{
				Kind:          domain.KindServiceView,
				ProposalID:    "p5",
				ExecutionMode: domain.ModeAuto,
				ResolvedID:    &id,
				Payload:       map[string]any{"name": "Haircut"},
			}})

			err := coord.Confirm(ctx, "p5", nil)
			Expect(errors.Is(err, domain.ErrNotExecutable)).To(BeTrue())
		})
	})

	Describe("Cancel", func() {
		BeforeEach(func() {
			registerExecutor(domain.KindServiceCreate)
			proposals.Append(ctx, []*domain.Proposal{createProposal("p1")})
		})

		It("should report cancelled to the backend and remove the proposal", func() {
			Expect(coord.Cancel(ctx, "p1")).To(Succeed())

			results := chatClient.ActionResults()
			Expect(results).To(HaveLen(1))
			Expect(results[0].Status).To(Equal(domain.StatusCancelled))
			Expect(proposals.Len()).To(Equal(0))
			Expect(conversation.Messages()).To(HaveLen(1))
		})

		It("should remove the proposal even when the backend call fails", func() {
			chatClient.failResults = true
			Expect(coord.Cancel(ctx, "p1")).To(Succeed())
			Expect(proposals.Len()).To(Equal(0))
			Expect(conversation.Messages()).To(BeEmpty())
		})

		It("should be a no-op for an id that is not pending", func() {
			err := coord.Cancel(ctx, "ghost")
			Expect(errors.Is(err, domain.ErrProposalNotFound)).To(BeTrue())
			Expect(chatClient.ActionResults()).To(BeEmpty())
		})

		It("should allow dismissing a proposal whose kind has no registry entry", func() {
			proposals.Append(ctx, []*domain.Proposal{{
				Kind:          "service:archive",
				ProposalID:    "p9",
				ExecutionMode: domain.ModeConfirm,
			}})

			Expect(coord.Cancel(ctx, "p9")).To(Succeed())
			_, ok := proposals.Get("p9")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Double-submission guard", func() {
		BeforeEach(func() {
			registerExecutor(domain.KindServiceCreate)
			proposals.Append(ctx, []*domain.Proposal{createProposal("p1"), createProposal("p2")})
		})

		It("should ignore a repeat request while the first is in flight", func() {
			executeGate = make(chan struct{})
			executeStarted = make(chan struct{})

			done := make(chan error, 1)
			go func() {
				done <- coord.Confirm(ctx, "p1", nil)
			}()
			Eventually(executeStarted).Should(BeClosed())

			Expect(coord.Confirm(ctx, "p1", nil)).To(MatchError(coordinator.ErrInFlight))
			Expect(coord.Cancel(ctx, "p1")).To(MatchError(coordinator.ErrInFlight))

			close(executeGate)
			Eventually(done).Should(Receive(Succeed()))
			Expect(proposals.Len()).To(Equal(1))
		})

		It("should resolve two different proposals independently", func() {
			executeGate = make(chan struct{})
			executeStarted = make(chan struct{})

			done := make(chan error, 1)
			go func() {
				done <- coord.Confirm(ctx, "p1", nil)
			}()
			Eventually(executeStarted).Should(BeClosed())

			// p2 is cancelled immediately while p1's call is in flight.
			Expect(coord.Cancel(ctx, "p2")).To(Succeed())
			_, ok := proposals.Get("p2")
			Expect(ok).To(BeFalse())
			_, ok = proposals.Get("p1")
			Expect(ok).To(BeTrue())

			close(executeGate)
			Eventually(done).Should(Receive(Succeed()))
			Expect(proposals.Len()).To(Equal(0))
		})
	})
})

// displayOnlyPlugin registers the view kind with no executor.
type displayOnlyPlugin struct{}

func (p *displayOnlyPlugin) ID() string          { return "view-only" }
func (p *displayOnlyPlugin) Name() string        { return "View only" }
func (p *displayOnlyPlugin) Description() string { return "Display-only actions" }
func (p *displayOnlyPlugin) Version() string     { return "1.0.0" }

func (p *displayOnlyPlugin) GetActions(ctx context.Context) ([]domain.Action, error) {
	return []domain.Action{{
		Kind:  domain.KindServiceView,
		Title: "Service details",
		GetProps: func(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
			return map[string]any{}, nil
		},
	}}, nil
}
