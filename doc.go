/*
Package toyrobot is a toy robot simulator: a robot moving on a 5x5 table that
accepts PLACE, MOVE, LEFT, RIGHT and REPORT commands, with every position
recorded in an append-only log.

It follows a Hexagonal Architecture. The robot state machine (pkg/robot) lives on
the client and forwards each accepted transition, in order, to a position
recorder. The recorder is either the HTTP API served by the position log
(pkg/adapters/http over pkg/positions) or the log itself when running locally.
Storage is pluggable: memory, SQLite or Redis.

# Concept

	PLACE 1,2   -> robot at (1,2) facing NORTH, record #1
	MOVE        -> robot at (1,3) facing NORTH, record #2
	RIGHT       -> robot at (1,3) facing EAST,  record #3
	REPORT      -> Output: 1,3,EAST

Moves that would fall off the table are absorbed: the robot stays where it is.
Commands issued before the first PLACE are ignored.

# Usage

Run a server and drive it from the interactive client:

	toyrobot serve --store sqlite
	toyrobot run --server http://localhost:3000

Or embed the pieces directly:

	store := memory.NewStore()
	log := positions.NewManager(store)
	bot := robot.New(log)
	defer bot.Close()

	_ = bot.Place(0, 0)
	bot.Move()
	rec, _ := bot.Report(ctx)
*/
package toyrobot
