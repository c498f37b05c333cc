/*
Package domain contains the core domain models and rules of the toy robot simulator.

It defines the grid, the closed set of headings, the rotation and movement rules,
and the immutable position records kept by the position log. This package is kept
pure and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Grid: the N x N board the robot lives on (N = 5 by default).
  - Direction: the heading of the robot (NORTH, EAST, SOUTH, WEST).
  - Turn: a rotation command (LEFT, RIGHT).
  - Position: where the robot stands and which way it faces.
  - Record: an id-stamped snapshot of a Position in the append-only log.
*/
package domain
