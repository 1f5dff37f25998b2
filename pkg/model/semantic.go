package model

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// LurePattern is a labeled exemplar phrase for similarity matching.
type LurePattern struct {
	Text     string
	Category string  // "credential_lure", "payment_lure", ..., or "benign"
	Severity float32 // 0.0-1.0, scales the assessment score
}

// SemanticEnhancer scores messages by embedding similarity against known
// phishing lures. Matches below the threshold, or whose best match is a
// benign exemplar, produce no assessment and leave the local verdict alone.
type SemanticEnhancer struct {
	db         *chromem.DB
	collection *chromem.Collection
	threshold  float32
	mu         sync.RWMutex
	ready      bool
}

// NewSemanticEnhancer builds the in-memory vector store and seeds it with
// the default lure exemplars.
func NewSemanticEnhancer(threshold float64) (*SemanticEnhancer, error) {
	return NewSemanticEnhancerWithPatterns(threshold, defaultLurePatterns())
}

// NewSemanticEnhancerWithPatterns seeds the store with a custom exemplar
// set. Thresholds outside (0, 1] fall back to 0.7.
func NewSemanticEnhancerWithPatterns(threshold float64, patterns []LurePattern) (*SemanticEnhancer, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no lure patterns to seed")
	}

	db := chromem.NewDB()
	embedder := NewHashingEmbedder(embeddingDim)
	collection, err := db.CreateCollection("lure_patterns", nil, embedder.EmbeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	se := &SemanticEnhancer{
		db:         db,
		collection: collection,
		threshold:  float32(threshold),
	}
	if err := se.seed(context.Background(), patterns); err != nil {
		return nil, err
	}
	return se, nil
}

func (se *SemanticEnhancer) seed(ctx context.Context, patterns []LurePattern) error {
	docs := make([]chromem.Document, len(patterns))
	for i, p := range patterns {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("lure_%03d", i),
			Content: p.Text,
			Metadata: map[string]string{
				"category": p.Category,
				"severity": fmt.Sprintf("%.2f", p.Severity),
			},
		}
	}
	if err := se.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("seed lure patterns: %w", err)
	}

	se.mu.Lock()
	se.ready = true
	se.mu.Unlock()
	return nil
}

func (se *SemanticEnhancer) Name() string {
	return "semantic"
}

// IsReady reports whether the exemplar store is seeded.
func (se *SemanticEnhancer) IsReady() bool {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.ready
}

// PatternCount returns the number of seeded exemplars.
func (se *SemanticEnhancer) PatternCount() int {
	return se.collection.Count()
}

// Assess queries the closest exemplars for the lowercased text.
// (nil, nil) means nothing resembled a known lure closely enough to
// overrule the local blend.
func (se *SemanticEnhancer) Assess(ctx context.Context, text string) (*Assessment, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	if !se.ready {
		return nil, ErrModelUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	n := 3
	if c := se.collection.Count(); c < n {
		n = c
	}
	if n == 0 {
		return nil, nil
	}

	results, err := se.collection.Query(ctx, strings.ToLower(text), n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("lure query: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	best := results[0]
	if best.Similarity < se.threshold || best.Metadata["category"] == "benign" {
		return nil, nil
	}

	severity := 1.0
	if s, err := strconv.ParseFloat(best.Metadata["severity"], 64); err == nil && s > 0 {
		severity = s
	}

	score := float64(best.Similarity) * severity * 100
	if score > 100 {
		score = 100
	}

	category := strings.ReplaceAll(best.Metadata["category"], "_", " ")
	explanation := fmt.Sprintf(
		"Message closely resembles a known %s (%.0f%% similar): %q.",
		category, float64(best.Similarity)*100, best.Content,
	)
	return &Assessment{Score: score, Explanation: explanation}, nil
}

// defaultLurePatterns is the curated exemplar set. Phishing lures carry a
// severity that scales the score; benign exemplars exist to absorb
// office-speak queries so they never match a lure best.
func defaultLurePatterns() []LurePattern {
	return []LurePattern{
		// Credential harvesting
		{"We detected unusual activity on your account, verify your identity immediately", "credential_lure", 1.0},
		{"Your password will expire today, click here to keep your access", "credential_lure", 0.95},
		{"Confirm your billing information to avoid service interruption", "credential_lure", 0.9},
		{"Sign in to validate your account or it will be permanently closed", "credential_lure", 0.95},
		{"Update your payment details now to continue using your account", "credential_lure", 0.9},

		// Payment and money movement
		{"Your invoice is overdue, pay now using the attached wire transfer details", "payment_lure", 0.9},
		{"Send the gift card codes to complete the urgent payment", "payment_lure", 0.95},
		{"Your refund of $500 is waiting, submit your bank account to claim it", "payment_lure", 0.9},
		{"Pay the outstanding customs fee in bitcoin to release your package", "payment_lure", 0.9},

		// Prizes and rewards
		{"Congratulations, you have been selected as the winner of our lottery", "prize_lure", 0.9},
		{"Claim your free prize before the offer expires tonight", "prize_lure", 0.9},
		{"You are the lucky winner, claim your reward within 24 hours", "prize_lure", 0.9},

		// Threats and pressure
		{"Your account has been suspended due to suspicious login attempts", "threat_lure", 0.95},
		{"Legal action will be taken unless you respond immediately", "threat_lure", 0.95},
		{"Failure to comply will result in permanent account closure", "threat_lure", 0.9},
		{"We will release your private photos unless payment is received", "threat_lure", 1.0},

		// Delivery scams
		{"Your package could not be delivered, confirm your address at the link", "delivery_lure", 0.85},
		{"A shipment is on hold pending a small redelivery fee", "delivery_lure", 0.85},

		// Authority impersonation
		{"This is the IT department, we need your login to patch your mailbox", "authority_lure", 0.95},
		{"Message from the CEO: transfer the funds today and keep this confidential", "authority_lure", 0.95},
		{"The security team requires you to install the attached update", "authority_lure", 0.9},

		// Benign office traffic (false positive prevention)
		{"Please review the attached agenda before tomorrow's meeting", "benign", 0.0},
		{"Thanks for your help with the quarterly report", "benign", 0.0},
		{"Let me know if you have questions about the project schedule", "benign", 0.0},
		{"The lunch order arrives at noon, see you in the break room", "benign", 0.0},
		{"Here are the meeting notes from this morning's standup", "benign", 0.0},
		{"Can you send me the latest draft of the design document", "benign", 0.0},
	}
}
