package job

import (
	"fmt"
	"strconv"
	"testing"
)

func TestShardLabel_StableForSameMeal(t *testing.T) {
	t.Parallel()
	for _, mealID := range []string{"", "meal-1", "2f1c9a4e-5b7d-4c36-9a55-6f0d5f5c2b11"} {
		if a, b := ShardLabel(mealID), ShardLabel(mealID); a != b {
			t.Fatalf("label for %q changed between calls: %s vs %s", mealID, a, b)
		}
	}
}

func TestShardLabel_BoundedCardinality(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		l := ShardLabel(fmt.Sprintf("meal-%d", i))
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 || n >= labelBuckets {
			t.Fatalf("label %q outside [0,%d)", l, labelBuckets)
		}
		seen[l] = true
	}
	if len(seen) < labelBuckets/2 {
		t.Fatalf("1000 meal ids spread over only %d labels", len(seen))
	}
}
