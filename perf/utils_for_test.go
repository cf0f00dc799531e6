package perf

const defaultSeed = 12345678
