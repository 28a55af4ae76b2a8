package components

// PositionComponent 存储实体在战场上的坐标
// 敌人和投射物每帧更新，防御塔放置后固定不变
type PositionComponent struct {
	X float64
	Y float64
}
