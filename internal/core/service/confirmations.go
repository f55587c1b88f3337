package service

import (
	"sync"

	"github.com/google/uuid"
)

const removalPrompt = "Are you sure you want to delete this product?"

type Confirmation struct {
	Token     string `json:"token"`
	ProductID string `json:"productId"`
	Prompt    string `json:"prompt"`
}

// RemovalConfirmations tracks one-shot confirmation requests for deletes.
type RemovalConfirmations struct {
	mu      sync.Mutex
	pending map[string]string
}

func NewRemovalConfirmations() *RemovalConfirmations {
	return &RemovalConfirmations{pending: make(map[string]string)}
}

func (c *RemovalConfirmations) Request(productID string) Confirmation {
	token := uuid.NewString()

	c.mu.Lock()
	c.pending[token] = productID
	c.mu.Unlock()

	return Confirmation{Token: token, ProductID: productID, Prompt: removalPrompt}
}

// Resolve consumes token and returns the product id it was issued for.
func (c *RemovalConfirmations) Resolve(token string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.pending[token]
	if ok {
		delete(c.pending, token)
	}
	return id, ok
}

// Clear drops every outstanding request.
func (c *RemovalConfirmations) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = make(map[string]string)
}
