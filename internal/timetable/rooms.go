package timetable

import "github.com/acadops/timetable-api/internal/models"

// RoomAssigner hands out rooms to sections in round-robin order. Both pools
// rotate: a consumed room moves to the back of its pool so reuse is spread
// evenly once sections outnumber rooms. Empty pools yield the sentinel
// identifiers, which remain valid ledger keys.
type RoomAssigner struct {
	lecturePool []string
	labPool     []string
}

// NewRoomAssigner splits the room table into lecture and lab pools. Large
// seaters are lecture-capable.
func NewRoomAssigner(rooms []models.Room) *RoomAssigner {
	a := &RoomAssigner{}
	for _, room := range rooms {
		switch room.Type {
		case models.RoomTypeLecture, models.RoomTypeLargeSeater:
			a.lecturePool = append(a.lecturePool, room.ID)
		case models.RoomTypeComputerLab:
			a.labPool = append(a.labPool, room.ID)
		}
	}
	return a
}

// LectureRoomCount reports the size of the lecture pool.
func (a *RoomAssigner) LectureRoomCount() int {
	return len(a.lecturePool)
}

// LabRoomCount reports the size of the lab pool.
func (a *RoomAssigner) LabRoomCount() int {
	return len(a.labPool)
}

// Assign draws one lecture room and a lab-room pair for the next section.
func (a *RoomAssigner) Assign() (lecture string, labs [2]string) {
	lecture = a.nextLecture()
	labs = a.nextLabPair()
	return lecture, labs
}

func (a *RoomAssigner) nextLecture() string {
	if len(a.lecturePool) == 0 {
		return models.RoomUnassignedLecture
	}
	room := a.lecturePool[0]
	a.lecturePool = append(a.lecturePool[1:], room)
	return room
}

func (a *RoomAssigner) nextLabPair() [2]string {
	switch len(a.labPool) {
	case 0:
		return [2]string{models.RoomUnassignedLab, models.RoomUnassignedLab}
	case 1:
		return [2]string{a.labPool[0], a.labPool[0]}
	}
	first, second := a.labPool[0], a.labPool[1]
	a.labPool = append(a.labPool[2:], first, second)
	return [2]string{first, second}
}
