package rtstate

// A Killable object can be told to shut down by sending a signal via the Kill() channel.
// As its last action, the object posts a signal to Dead() and closes both channels,
// indicating that it has finished shutting down.
type Killable interface {
	Kill() chan<- bool
	Dead() <-chan bool
}

// Kill shuts k down and waits until it is dead.
func Kill(k Killable) {
	k.Kill() <- true
	<-k.Dead()
}
