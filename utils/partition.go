package utils

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one. The first
// MaxIndex % ParallelDegree buckets carry the extra item.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // Beginning and end (exclusive) of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) Split1D(bucketNum int) (bucket [2]int) {
	var (
		Npart     = pm.MaxIndex / pm.ParallelDegree
		remainder = pm.MaxIndex % pm.ParallelDegree
		extra     = min(bucketNum, remainder)
	)
	bucket[0] = bucketNum*Npart + extra
	bucket[1] = bucket[0] + Npart
	if bucketNum < remainder {
		bucket[1]++
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bucketNum int) int {
	kMin, kMax := pm.GetBucketRange(bucketNum)
	return kMax - kMin
}

// Members returns order[kMin:kMax] for the bucket, or the identity range
// when order is nil.
func (pm *PartitionMap) Members(bucketNum int, order []int) (I []int) {
	kMin, kMax := pm.GetBucketRange(bucketNum)
	I = make([]int, 0, kMax-kMin)
	for k := kMin; k < kMax; k++ {
		I = append(I, pick(order, k))
	}
	return
}

// Complement returns every index outside the bucket, in order.
func (pm *PartitionMap) Complement(bucketNum int, order []int) (I []int) {
	kMin, kMax := pm.GetBucketRange(bucketNum)
	I = make([]int, 0, pm.MaxIndex-(kMax-kMin))
	for k := 0; k < pm.MaxIndex; k++ {
		if k >= kMin && k < kMax {
			continue
		}
		I = append(I, pick(order, k))
	}
	return
}

func pick(order []int, k int) int {
	if order == nil {
		return k
	}
	return order[k]
}
