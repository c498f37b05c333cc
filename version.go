package toyrobot

// Version is the released version of the toyrobot module.
const Version = "0.3.0"
