// Package throttle holds a token bucket in front of another
// [http.RoundTripper]. The restclient client installs it when built
// with client.WithThrottle:
//
//	c, err := client.New(cfg, client.WithThrottle(10, 5))
//
// A request that finds the bucket empty waits for its reservation. It
// fails early with [ErrWaitingFailed] when the wait cannot fit into the
// request context's deadline, and with [ErrContextEnded] when the
// context ends during the wait.
package throttle
