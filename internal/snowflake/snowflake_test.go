package snowflake

import "testing"

func TestGenerateMonotonic(t *testing.T) {
	node := NewNode(1)

	prev := int64(0)
	for i := 0; i < 10000; i++ {
		id := node.Generate()
		if id <= prev {
			t.Fatalf("Expected strictly increasing ids, got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestNewNodeClampsInvalidNodeID(t *testing.T) {
	a := NewNode(-1)
	b := NewNode(maxNodeID + 1)

	if a.nodeID != 1 || b.nodeID != 1 {
		t.Errorf("Expected invalid node ids to fall back to 1, got %d and %d", a.nodeID, b.nodeID)
	}
}
