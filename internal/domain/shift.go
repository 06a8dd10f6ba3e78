package domain

import "slices"

// DateLayout 是班次日期在接口和 CSV 中的格式
const DateLayout = "2006-01-02"

// 每个班次固定 8 小时，开始时间只能是这三个整点
var ShiftStarts = []int{0, 8, 16}

const shiftHours = 8

type Shift struct {
	ID         int64  `json:"id"`
	WorkerID   int64  `json:"worker_id"`
	ShiftDate  string `json:"shift_date"`
	ShiftStart int    `json:"shift_start"`
	ShiftEnd   int    `json:"shift_end"`
}

// ShiftSlot 是班次对外展示的投影，不包含 id 和 worker_id
type ShiftSlot struct {
	ShiftDate  string `json:"shift_date"`
	ShiftStart int    `json:"shift_start"`
	ShiftEnd   int    `json:"shift_end"`
}

type WorkerShifts struct {
	Name   string      `json:"name"`
	Shifts []ShiftSlot `json:"shifts"`
}

func IsValidShiftStart(start int) bool {
	return slices.Contains(ShiftStarts, start)
}

func ShiftEnd(start int) int {
	return (start + shiftHours) % 24
}

func (s *Shift) Slot() ShiftSlot {
	return ShiftSlot{
		ShiftDate:  s.ShiftDate,
		ShiftStart: s.ShiftStart,
		ShiftEnd:   s.ShiftEnd,
	}
}
