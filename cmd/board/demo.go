package main

import (
	"time"

	"github.com/avtoclass/schedboard/internal/model"
)

// Демо-данные для запуска доски без базы

func demoInstructors() []*model.Instructor {
	instructors := []*model.Instructor{
		{ID: 1, Name: "Иванов П.С.", Sector: "Центр", Vehicle: model.Vehicle{Plate: "А123ВС", Gearbox: model.GearboxManual}},
		{ID: 2, Name: "Петрова Н.А.", Sector: "Центр", Vehicle: model.Vehicle{Plate: "В456ОР", Gearbox: model.GearboxAutomatic}},
		{ID: 3, Name: "Сидоров К.М.", Sector: "Север", Vehicle: model.Vehicle{Plate: "Е789КХ", Gearbox: model.GearboxManual}},
		{ID: 4, Name: "Козлова Т.И.", Sector: "Север", Vehicle: model.Vehicle{Plate: "К012МН", Gearbox: model.GearboxAutomatic}},
		{ID: 5, Name: "Морозов Д.В.", Sector: "Юг", Vehicle: model.Vehicle{Plate: "М345ТУ", Gearbox: model.GearboxManual}},
		{ID: 6, Name: "Волкова А.Е.", Sector: "Юг", Vehicle: model.Vehicle{Plate: "О678СВ", Gearbox: model.GearboxManual}},
	}
	// Две схемы показа: по порядку найма и по секторам
	for i, inst := range instructors {
		inst.OrderA = i + 1
	}
	instructors[0].OrderB = 1
	instructors[2].OrderB = 2
	instructors[4].OrderB = 3
	instructors[1].OrderB = 4
	instructors[3].OrderB = 5
	instructors[5].OrderB = 6
	return instructors
}

func demoReservations(weekStart time.Time) []*model.Reservation {
	at := func(day, hour int) time.Time {
		return weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	}
	return []*model.Reservation{
		{
			ID: 101, InstructorID: 1,
			Start: at(0, 9), End: at(0, 10),
			StudentName: "Смирнова Ольга", ColorToken: "green",
			Confirmed: true, Notes: "Вождение по городу, маршрут №2",
		},
		{
			ID: 102, InstructorID: 1,
			Start: at(0, 14), End: at(0, 16),
			StudentName: "Кузнецов Андрей", ColorToken: "blue",
			Favorite: true, Notes: "Сдвоенное занятие, площадка",
		},
		{
			ID: 103, InstructorID: 2,
			Start: at(0, 10), End: at(0, 11),
			StudentName: "Попов Максим", ColorToken: "pink",
			Important: true, Notes: "Подготовка к экзамену",
		},
		{
			ID: 104, InstructorID: 3,
			Start: at(1, 9), End: at(1, 10),
			StudentName: "Лебедева Ирина", ColorToken: "yellow",
		},
		{
			ID: 105, InstructorID: 5,
			Start: at(2, 12), End: at(2, 13),
			StudentName: "Новиков Сергей", ColorToken: "green",
			Confirmed: true,
		},
	}
}

func demoBlackouts(weekStart time.Time) []*model.Blackout {
	lunch := weekStart.Add(13 * time.Hour)
	return []*model.Blackout{
		// Обед инструктора №2 каждый день недели
		{
			ID: 1, InstructorID: 2, Kind: model.BlackoutRepeat,
			Start: lunch, End: lunch.AddDate(0, 0, 6), StepDays: 1,
		},
		// Разовый техосмотр у инструктора №4
		{
			ID: 2, InstructorID: 4, Kind: model.BlackoutSingle,
			Key: model.FormatTimeKey(weekStart.AddDate(0, 0, 1).Add(9 * time.Hour)),
		},
	}
}
