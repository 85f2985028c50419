package contract

import "ipecd-chatbot-be/pkg/learning"

// MemoryRepository is the durable store behind the learning memory. The
// method set is defined next to the memory itself so the similarity
// logic stays storage-agnostic.
type MemoryRepository interface {
	learning.Repository
}
