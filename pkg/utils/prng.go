package utils

import "math/rand"

// PRNGService 封装带种子的随机数生成器
// 同一种子产生相同的序列，波次构成因此可复现
type PRNGService struct {
	seed int64
	rng  *rand.Rand
}

// NewPRNGService 使用给定种子创建随机数服务
func NewPRNGService(seed int64) *PRNGService {
	return &PRNGService{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed 返回创建时使用的种子
func (s *PRNGService) Seed() int64 {
	return s.seed
}

// Intn 返回 [0, n) 范围内的随机整数，n <= 0 时返回 0
func (s *PRNGService) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Float64 返回 [0.0, 1.0) 范围内的随机浮点数
func (s *PRNGService) Float64() float64 {
	return s.rng.Float64()
}
