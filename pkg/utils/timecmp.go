package utils

import "time"

// CompareNullableTime 比较两个可空时间，nil视为最早。
// 返回负数表示a早于b，0表示相等，正数表示a晚于b。
// 主部署选取、历史部署筛选、排序共用这一个比较器，避免空值语义漂移。
func CompareNullableTime(a, b *time.Time) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.Compare(*b)
}

// NullableTimeBefore a是否严格早于b（nil视为最早）
func NullableTimeBefore(a, b *time.Time) bool {
	return CompareNullableTime(a, b) < 0
}

// NullableTimeAfter a是否严格晚于b（nil视为最早）
func NullableTimeAfter(a, b *time.Time) bool {
	return CompareNullableTime(a, b) > 0
}
