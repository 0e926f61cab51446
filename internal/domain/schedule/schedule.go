// Package schedule は営業時間と時間枠の計算を扱う
// 区間はすべて半開区間 [start, end) として扱う
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// SlotInterval は空き状況グリッドの刻み幅
const SlotInterval = 15 * time.Minute

// DateLayout は日付パラメータの書式（YYYY-MM-DD）
const DateLayout = "2006-01-02"

var (
	ErrInvalidClock    = errors.New("時刻は HH:MM 形式で指定してください")
	ErrInvalidDate     = errors.New("日付は YYYY-MM-DD 形式で指定してください")
	ErrInvalidInterval = errors.New("スロット間隔は正の値である必要があります")
)

// Shift はレストランの営業時間帯（同日内、ローカル時刻）
// End が Start 以前のシフトは日付を跨がず、何にもマッチしない
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Minutes はシフトの開始・終了を 0 時からの分に変換する
func (s Shift) Minutes() (start, end int, err error) {
	if start, err = ParseClock(s.Start); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(s.End); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// allDay はシフト未設定のレストランに使う終日の枠
var allDay = Shift{Start: "00:00", End: "23:59"}

// ParseClock は "HH:MM" を 0 時からの分に変換する
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps は半開区間 [aStart, aEnd) と [bStart, bEnd) が重なるかを返す
// 端点が接しているだけの区間は重ならない
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsWithinShifts は instant の loc における時刻がいずれかのシフト内にあるかを返す
// シフトが空の場合は終日営業とみなす
func IsWithinShifts(instant time.Time, shifts []Shift, loc *time.Location) bool {
	if len(shifts) == 0 {
		return true
	}

	local := instant.In(loc)
	minute := local.Hour()*60 + local.Minute()

	for _, s := range shifts {
		start, end, err := s.Minutes()
		if err != nil {
			continue
		}
		if minute >= start && minute < end {
			return true
		}
	}
	return false
}

// ParseDate は YYYY-MM-DD を loc の 0 時として解釈する
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return d, nil
}

// DayBounds は loc における date の暦日 [00:00, 翌日00:00) を返す
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// DayOf は instant を含む loc の暦日 [00:00, 翌日00:00) を返す
func DayOf(instant time.Time, loc *time.Location) (time.Time, time.Time) {
	local := instant.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// GenerateSlotGrid は date の各シフトについて interval 刻みの開始時刻を返す
// シフトが空なら 00:00〜23:59 を対象にする。結果は昇順で重複を含まない
func GenerateSlotGrid(date string, loc *time.Location, shifts []Shift, interval time.Duration) ([]time.Time, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	day, err := ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		shifts = []Shift{allDay}
	}

	seen := make(map[int64]struct{})
	var slots []time.Time
	for _, s := range shifts {
		start, end, err := s.Minutes()
		if err != nil {
			return nil, err
		}
		from := wallClock(day, start, loc)
		until := wallClock(day, end, loc)
		for cur := from; cur.Before(until); cur = cur.Add(interval) {
			key := cur.Unix()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, cur)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots, nil
}

func wallClock(day time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
}
