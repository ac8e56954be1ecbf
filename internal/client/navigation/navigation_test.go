package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_NavigateResolvesStack(t *testing.T) {
	s := NewStack(Route{Stack: StackAuth, Screen: ScreenSocialLogin})

	s.Navigate(Route{Screen: ScreenOwnerRegister})
	assert.Equal(t, Route{Stack: StackAuth, Screen: ScreenOwnerRegister}, s.Current())

	s.Navigate(OwnerLanding)
	assert.Equal(t, OwnerLanding, s.Current())
	assert.Equal(t, 3, s.Len())
}

func TestStack_BackKeepsInitial(t *testing.T) {
	initial := Route{Stack: StackAuth, Screen: ScreenSocialLogin}
	s := NewStack(initial)
	assert.False(t, s.Back())

	s.Navigate(Route{Screen: ScreenOwnerRegister})
	assert.True(t, s.Back())
	assert.Equal(t, initial, s.Current())
	assert.False(t, s.Back())
}

func TestStack_Reset(t *testing.T) {
	s := NewStack(Route{Stack: StackAuth, Screen: ScreenSocialLogin})
	s.Navigate(Route{Screen: ScreenOwnerRegister})
	s.Reset(OwnerLanding)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, OwnerLanding, s.Current())
}

func TestStack_ConcurrentNavigate(t *testing.T) {
	s := NewStack(Route{Stack: StackAuth, Screen: ScreenSocialLogin})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Navigate(Route{Screen: ScreenOwnerRegister})
		}()
	}
	wg.Wait()
	assert.Equal(t, 51, s.Len())
}
