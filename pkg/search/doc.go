/*
Package search looks for triples of odd primes summing to an odd integer n > 7,
the statement of Goldbach's weak conjecture.

The search order is part of the contract: the outer index i runs over odd values
3 <= i < n-5, the inner index j over odd values i <= j < n-2, and k = n-i-j. The first
triple whose members all test ProbablyPrime is returned, so results are the
lexicographically smallest (i, j) and repeat across calls.
*/
package search
