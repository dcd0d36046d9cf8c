package job

import (
	"hash/fnv"
	"strconv"
)

// labelBuckets bounds the cardinality of the shard label used in metrics.
const labelBuckets = 32

// ShardLabel maps a dispatch key, usually a meal id, to one of labelBuckets
// stable metric labels.
func ShardLabel(key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return strconv.FormatUint(uint64(h.Sum32()%labelBuckets), 10)
}
