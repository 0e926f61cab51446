package reservation

import "time"

// 予約イベントの種類
const (
	EventConfirmed = "reservation.confirmed"
	EventCancelled = "reservation.cancelled"
)

// Event は予約の状態変化を外部に通知するためのメッセージ
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservationId"`
	RestaurantID  string    `json:"restaurantId"`
	SectorID      string    `json:"sectorId"`
	TableIDs      []string  `json:"tableIds"`
	PartySize     int       `json:"partySize"`
	StartAt       time.Time `json:"start"`
	EndAt         time.Time `json:"end"`
	Status        Status    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent は予約の現在の状態からイベントを作る
func NewEvent(eventType string, r *Reservation) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		RestaurantID:  r.RestaurantID,
		SectorID:      r.SectorID,
		TableIDs:      r.TableIDs,
		PartySize:     r.PartySize,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		Status:        r.Status,
		OccurredAt:    time.Now().UTC(),
	}
}
