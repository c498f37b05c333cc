/*
Package ports defines the boundaries between the robot core and the outside world.

Driven ports (PositionStore) are implemented by the storage adapters under
pkg/adapters. PositionRecorder is the narrow view the robot state machine needs,
implemented by the position log service and by the HTTP client.

RunPositionStoreContract is a reusable suite every PositionStore adapter must pass.
*/
package ports
