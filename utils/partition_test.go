package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket size histogram
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				histo[pm.GetBucketDimension(np)]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 10; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 10)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Remainder goes to the leading buckets, like an unshuffled k-fold split
		pm := NewPartitionMap(3, 10)
		assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, pm.Partitions)
	}
}

func TestPartitionMembers(t *testing.T) {
	pm := NewPartitionMap(3, 7)
	assert.Equal(t, []int{0, 1, 2}, pm.Members(0, nil))
	assert.Equal(t, []int{3, 4, 5, 6}, pm.Complement(0, nil))
	assert.Equal(t, []int{0, 1, 2, 5, 6}, pm.Complement(1, nil))
	order := []int{6, 5, 4, 3, 2, 1, 0}
	assert.Equal(t, []int{6, 5, 4}, pm.Members(0, order))
	assert.Equal(t, []int{6, 5, 4, 3, 2}, pm.Complement(2, order))
	// Every index lands in exactly one bucket
	seen := make(map[int]int)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		for _, k := range pm.Members(bn, order) {
			seen[k]++
		}
		assert.Equal(t, pm.MaxIndex, len(pm.Members(bn, nil))+len(pm.Complement(bn, nil)))
	}
	assert.Equal(t, 7, len(seen))
}
