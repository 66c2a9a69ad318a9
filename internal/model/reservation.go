package model

import "time"

// Reservation запись о занятии на доске. Ядро никогда не мутирует записи,
// только переводит их в отрисовочное представление при сборке сцены.
type Reservation struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	StudentID    *int64    `json:"student_id"` // указатель - может быть nil
	StudentName  string    `json:"student_name"`
	ColorToken   string    `json:"color_token"` // символический токен, разрешается темой
	Confirmed    bool      `json:"confirmed"`
	Favorite     bool      `json:"favorite"`
	Important    bool      `json:"important"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// Overlaps проверяет пересечение занятия с интервалом [start, end)
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}

// SameDay проверяет, начинается ли занятие в указанный день
func (r *Reservation) SameDay(day time.Time) bool {
	y1, m1, d1 := r.Start.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
