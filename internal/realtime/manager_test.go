package realtime

import (
	"strconv"
	"sync"
	"testing"

	"github.com/coder/websocket"
)

func TestConnectionManager_Register(t *testing.T) {
	cm := NewConnectionManager()
	conn := &websocket.Conn{}

	cm.Register("learner-1", "tab-1", conn)

	if active := cm.GetActive("learner-1", "tab-1"); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
	if cm.Count() != 1 {
		t.Errorf("Count() = %d, want 1", cm.Count())
	}
}

func TestConnectionManager_Unregister(t *testing.T) {
	cm := NewConnectionManager()
	conn := &websocket.Conn{}

	cm.Register("learner-1", "tab-1", conn)
	cm.Unregister("learner-1", "tab-1", conn)

	if active := cm.GetActive("learner-1", "tab-1"); active != nil {
		t.Errorf("Expected nil connection, got %v", active)
	}
	if cm.Count() != 0 {
		t.Errorf("Count() = %d, want 0", cm.Count())
	}
}

func TestConnectionManager_UnregisterKeepsOtherTabs(t *testing.T) {
	cm := NewConnectionManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	cm.Register("learner-1", "tab-1", conn1)
	cm.Register("learner-1", "tab-2", conn2)
	cm.Unregister("learner-1", "tab-1", conn1)

	if active := cm.GetActive("learner-1", "tab-2"); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
	if got := cm.Sessions("learner-1"); len(got) != 1 || got[0] != "tab-2" {
		t.Errorf("Sessions() = %v", got)
	}
}

func TestConnectionManager_StaleUnregisterIgnored(t *testing.T) {
	cm := NewConnectionManager()
	current := &websocket.Conn{}
	stale := &websocket.Conn{}

	cm.Register("learner-1", "tab-1", current)
	cm.Unregister("learner-1", "tab-1", stale)

	if active := cm.GetActive("learner-1", "tab-1"); active != current {
		t.Errorf("stale unregister removed the current connection")
	}
}

func TestConnectionManager_ConcurrentAccess(t *testing.T) {
	cm := NewConnectionManager()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			cm.Register("learner", "tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			cm.GetActive("learner", "tab-"+strconv.Itoa(i))
			cm.Count()
		}
	}()

	wg.Wait()
	if cm.Count() != 1000 {
		t.Errorf("Count() = %d, want 1000", cm.Count())
	}
}
