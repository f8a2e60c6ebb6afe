/*
Package primality implements a probabilistic Miller-Rabin primality oracle over
arbitrary-precision integers.

The oracle never proves primality. A Composite verdict is definite; a ProbablyPrime
verdict is wrong with probability at most 4^-witnesses.

	oracle := primality.NewOracle(primality.WithWitnesses(20))
	verdict, err := oracle.Test(ctx, big.NewInt(7919))
*/
package primality
