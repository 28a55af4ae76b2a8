package systems

import (
	"math"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/utils"
)

// PathMotionSystem 让敌人沿路径移动并维护路径完成度
//
// 敌人距离下一个路径点小于吸附距离时切换到下一段；
// 切换后若已没有后续线段，则标记到达终点。
// 完成度 = (之前所有线段长度 + 当前位置在当前线段上的投影长度) / 路径总长，
// 结果限制在 [0, 1]，零长度线段对分子分母都不产生贡献。
type PathMotionSystem struct {
	entityManager *ecs.EntityManager
	snapDistance  float64
}

// NewPathMotionSystem 创建路径移动系统
func NewPathMotionSystem(em *ecs.EntityManager, snapDistance float64) *PathMotionSystem {
	return &PathMotionSystem{
		entityManager: em,
		snapDistance:  snapDistance,
	}
}

// Advance 推进一个敌人 dt 秒
// 已到达终点或速度 <= 0（例如眩晕）时不移动
func (s *PathMotionSystem) Advance(id ecs.EntityID, dt float64) {
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
	if !ok || enemy.ReachedEnd {
		return
	}
	follower, ok := ecs.GetComponent[*components.PathFollowerComponent](s.entityManager, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return
	}
	speed, ok := ecs.GetComponent[*components.SpeedComponent](s.entityManager, id)
	if !ok || speed.Current <= 0 {
		return
	}

	path := follower.Path
	if follower.SegmentIndex >= path.SegmentCount() {
		s.markReachedEnd(enemy, follower)
		return
	}

	next := path.Points[follower.SegmentIndex+1]
	distance := utils.Distance(pos.X, pos.Y, next.X, next.Y)

	if distance < s.snapDistance {
		follower.SegmentIndex++
		if follower.SegmentIndex >= path.SegmentCount() {
			s.markReachedEnd(enemy, follower)
			return
		}
		s.updateProgress(follower, pos)
		return
	}

	moveRatio := math.Min(1, speed.Current*dt/distance)
	pos.X += (next.X - pos.X) * moveRatio
	pos.Y += (next.Y - pos.Y) * moveRatio

	s.updateProgress(follower, pos)
}

func (s *PathMotionSystem) markReachedEnd(enemy *components.EnemyComponent, follower *components.PathFollowerComponent) {
	enemy.ReachedEnd = true
	follower.Progress = 1
}

func (s *PathMotionSystem) updateProgress(follower *components.PathFollowerComponent, pos *components.PositionComponent) {
	path := follower.Path
	total := path.TotalLength()
	if total <= 0 {
		follower.Progress = 0
		return
	}

	idx := follower.SegmentIndex
	covered := path.LengthBefore(idx)

	if segLen := path.SegmentLength(idx); segLen > 0 {
		a := path.Points[idx]
		b := path.Points[idx+1]
		projection := ((pos.X-a.X)*(b.X-a.X) + (pos.Y-a.Y)*(b.Y-a.Y)) / segLen
		covered += math.Max(0, math.Min(segLen, projection))
	}

	follower.Progress = math.Max(0, math.Min(1, covered/total))
}
