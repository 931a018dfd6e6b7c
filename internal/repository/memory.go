package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]entity.RoomSnapshot
}

// NewMemoryRoomRepository is used when redis is disabled.
func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]entity.RoomSnapshot),
	}
}

func (that *memoryRoom) CreateOrUpdate(_ context.Context, snapshot *entity.RoomSnapshot) error {
	stored := *snapshot
	stored.Players = append([]entity.Player(nil), snapshot.Players...)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[snapshot.ID] = stored

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.RoomSnapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot, ok := that.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	snapshot.Players = append([]entity.Player(nil), snapshot.Players...)

	return &snapshot, nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}
