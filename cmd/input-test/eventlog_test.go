package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLog_DropsOldest(t *testing.T) {
	log := newEventLog(3)
	for i := range 5 {
		log.add(fmt.Sprint(i))
	}

	assert.Equal(t, []string{"2", "3", "4"}, log.lines)
	assert.Equal(t, 5, log.total)
}

func TestEventLog_Tail(t *testing.T) {
	log := newEventLog(10)
	log.add("a")
	log.add("b")
	log.add("c")

	assert.Equal(t, []string{"b", "c"}, log.tail(2))
	assert.Equal(t, []string{"a", "b", "c"}, log.tail(8))
	assert.Nil(t, log.tail(0))
	assert.Nil(t, log.tail(-1))
}
