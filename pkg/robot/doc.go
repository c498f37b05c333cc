/*
Package robot implements the toy robot state machine.

A Robot starts UNPLACED. PLACE puts it on the grid facing NORTH; LEFT, RIGHT and
MOVE are ignored until then. Moves that would leave the grid are absorbed.

Every accepted transition is handed to a Queue, which forwards positions to a
ports.PositionRecorder from a single goroutine. Records therefore reach the log
in the same order the commands were issued, and a slow or failing recorder never
blocks or rolls back the robot: the in-memory state stays authoritative for the
session. Report flushes the queue before reading the log back.
*/
package robot
