package core

import "os"

// createFlags opens a file for writing, creating or truncating it.
const createFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
