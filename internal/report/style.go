package report

// 达成率阈值（百分数）
const (
	AchievedThreshold = 100.0
	NearThreshold     = 75.0
)

// StyleClass 展示样式类名（颜色 / 字重），不是数据本身
type StyleClass string

const (
	StylePositive StyleClass = "text-green-600 font-bold"
	StyleWarning  StyleClass = "text-orange-500"
	StyleNegative StyleClass = "text-red-500"
	StyleNeutral  StyleClass = "text-gray-700"
)

// Achievement 达成等级
type Achievement int

const (
	AchievementNone     Achievement = iota // <= 0 或非数值
	AchievementBelow                       // (0, 75)
	AchievementNear                        // [75, 100)
	AchievementAchieved                    // >= 100
)

// ClassifyAchievement 按阈值判定达成等级，首个命中生效
func ClassifyAchievement(v float64, ok bool) Achievement {
	if !ok {
		return AchievementNone
	}
	switch {
	case v >= AchievedThreshold:
		return AchievementAchieved
	case v >= NearThreshold:
		return AchievementNear
	case v > 0:
		return AchievementBelow
	default:
		return AchievementNone
	}
}

// Class 达成等级对应的样式类
func (a Achievement) Class() StyleClass {
	switch a {
	case AchievementAchieved:
		return StylePositive
	case AchievementNear:
		return StyleWarning
	case AchievementBelow:
		return StyleNegative
	default:
		return StyleNeutral
	}
}

func (a Achievement) String() string {
	switch a {
	case AchievementAchieved:
		return "achieved"
	case AchievementNear:
		return "near"
	case AchievementBelow:
		return "below"
	default:
		return "none"
	}
}
